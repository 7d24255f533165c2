package screening

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"resume-screener/domain"
)

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	Extract(data []byte, filename string) string
}

// ModelClient scores one prompt against the vacancy.
type ModelClient interface {
	Evaluate(ctx context.Context, prompt string) (domain.ScreeningResult, error)
}

// DefaultWorkerLimit caps concurrent model calls when no limit is configured.
const DefaultWorkerLimit = 4

// Orchestrator fans submitted CVs out to concurrent screening workers and
// records their progress in the job store. Submission never waits on the
// workers; callers poll the store for completion.
type Orchestrator struct {
	store     domain.JobStore
	extractor Extractor
	model     ModelClient
	workers   *semaphore.Weighted
	log       *logrus.Logger
}

func NewOrchestrator(store domain.JobStore, extractor Extractor, model ModelClient, workerLimit int64, log *logrus.Logger) *Orchestrator {
	if workerLimit <= 0 {
		workerLimit = DefaultWorkerLimit
	}
	return &Orchestrator{
		store:     store,
		extractor: extractor,
		model:     model,
		workers:   semaphore.NewWeighted(workerLimit),
		log:       log,
	}
}

// Submit creates one queued job per document and schedules its screening.
// It returns the job ids immediately, before any processing starts.
func (o *Orchestrator) Submit(job domain.JobDescription, docs []domain.CandidateDocument) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := uuid.NewString()
		o.store.Create(id, doc.Filename)
		ids = append(ids, id)
		go o.screen(id, job.Text, doc)
	}
	return ids
}

// screen runs one job to its terminal state. Nothing may escape this
// function: a panic anywhere in the pipeline still leaves the record at
// progress 100 with a zero-score result, and one CV's fault never touches
// another's job.
func (o *Orchestrator) screen(id, jobText string, doc domain.CandidateDocument) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithField("job_id", id).Errorf("screening worker panic: %v", r)
			o.store.Update(id, 100, "error", failedResult(fmt.Sprintf("screening failed: %v", r)))
		}
	}()

	// Admission limit on in-flight work; the job stays "queued" while
	// waiting for a slot.
	if err := o.workers.Acquire(context.Background(), 1); err != nil {
		o.store.Update(id, 100, "error", failedResult("screening failed: "+err.Error()))
		return
	}
	defer o.workers.Release(1)

	o.store.Update(id, 5, "reading document", nil)
	text := o.extractor.Extract(doc.Data, doc.Filename)

	o.store.Update(id, 30, "analyzing", nil)
	prompt := BuildPrompt(jobText, text)

	result, err := o.model.Evaluate(context.Background(), prompt)
	if err != nil {
		o.log.WithField("job_id", id).Warnf("model evaluation failed: %v", err)
		result = *failedResult("evaluation unavailable: " + err.Error())
	}

	o.store.Update(id, 100, "completed", &result)
}

// failedResult is the zero-score ScreeningResult substituted when a job
// cannot be evaluated.
func failedResult(explanation string) *domain.ScreeningResult {
	return &domain.ScreeningResult{
		Name:          "Unknown",
		Contact:       "N/A",
		Score:         0,
		Explanation:   explanation,
		MatchedSkills: []string{},
	}
}
