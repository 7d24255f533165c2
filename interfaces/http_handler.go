package interfaces

import (
	"archive/zip"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"resume-screener/domain"
	"resume-screener/screening"
)

var allowedExtensions = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
	"txt":  true,
}

const shortlistSize = 5

type HTTPHandler struct {
	Orchestrator *screening.Orchestrator
	Store        domain.JobStore
	Extractor    screening.Extractor
	DB           *gorm.DB
	UploadDir    string
	Log          *logrus.Logger
}

func NewHTTPHandler(router *gin.Engine, orch *screening.Orchestrator, store domain.JobStore, extractor screening.Extractor, db *gorm.DB, uploadDir string, log *logrus.Logger) {
	h := &HTTPHandler{
		Orchestrator: orch,
		Store:        store,
		Extractor:    extractor,
		DB:           db,
		UploadDir:    uploadDir,
		Log:          log,
	}

	router.POST("/screen", h.Screen)
	router.GET("/progress/:id", h.GetProgress)
	router.GET("/results", h.GetResults)
	router.GET("/shortlist", h.DownloadShortlist)
}

// Screen accepts a job description (inline text or file) plus a batch of CVs
// and returns one job id per CV immediately. Screening itself runs in the
// background; clients poll /progress/:id.
func (h *HTTPHandler) Screen(c *gin.Context) {
	jobDesc, err := h.readJobDescription(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["cvs"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one CV file is required"})
		return
	}

	docs := make([]domain.CandidateDocument, 0, len(files))
	for _, fh := range files {
		if !allowedFile(fh.Filename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type: %s", fh.Filename)})
			return
		}
		data, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to read %s", fh.Filename)})
			return
		}
		docs = append(docs, domain.CandidateDocument{Filename: filepath.Base(fh.Filename), Data: data})
	}

	ids := h.Orchestrator.Submit(jobDesc, docs)
	h.archive(jobDesc.Text, ids, docs)

	c.JSON(http.StatusAccepted, gin.H{"job_ids": ids})
}

// GetProgress returns the current record of one screening job.
func (h *HTTPHandler) GetProgress(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	rec, err := h.Store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetResults lists all job records, best scores first.
func (h *HTTPHandler) GetResults(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.List())
}

// DownloadShortlist streams a zip of the top scoring CV files.
func (h *HTTPHandler) DownloadShortlist(c *gin.Context) {
	var top []domain.JobRecord
	for _, rec := range h.Store.List() {
		if !rec.Terminal() || rec.Result == nil {
			continue
		}
		top = append(top, rec)
		if len(top) == shortlistSize {
			break
		}
	}
	if len(top) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed jobs to shortlist"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="shortlisted.zip"`)
	c.Status(http.StatusOK)

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()
	for _, rec := range top {
		path := filepath.Join(h.UploadDir, "cvs", rec.ID+"_"+rec.Filename)
		data, err := os.ReadFile(path)
		if err != nil {
			h.Log.Warnf("shortlist: cannot read %s: %v", path, err)
			continue
		}
		w, err := zw.Create(rec.Filename)
		if err != nil {
			return
		}
		if _, err := w.Write(data); err != nil {
			return
		}
	}
}

// readJobDescription prefers inline job_text; a job_file is extracted only
// when no inline text was given.
func (h *HTTPHandler) readJobDescription(c *gin.Context) (domain.JobDescription, error) {
	jobText := strings.TrimSpace(c.PostForm("job_text"))
	if jobText != "" {
		return domain.JobDescription{Text: jobText}, nil
	}

	fh, err := c.FormFile("job_file")
	if err != nil || !allowedFile(fh.Filename) {
		return domain.JobDescription{}, fmt.Errorf("job description is required")
	}
	data, err := readUpload(fh)
	if err != nil {
		return domain.JobDescription{}, fmt.Errorf("failed to read job description file")
	}
	jobText = strings.TrimSpace(h.Extractor.Extract(data, fh.Filename))
	if jobText == "" {
		return domain.JobDescription{}, fmt.Errorf("job description is required")
	}
	return domain.JobDescription{Text: jobText, Filename: filepath.Base(fh.Filename)}, nil
}

// archive keeps the raw CV bytes on disk for the shortlist download and,
// when a database is configured, records the submission. Failures here are
// logged and never fail the request; archival is best effort.
func (h *HTTPHandler) archive(jobText string, ids []string, docs []domain.CandidateDocument) {
	if h.UploadDir != "" {
		dir := filepath.Join(h.UploadDir, "cvs")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			h.Log.Warnf("failed to create upload dir: %v", err)
		} else {
			for i, doc := range docs {
				path := filepath.Join(dir, ids[i]+"_"+doc.Filename)
				if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
					h.Log.Warnf("failed to save %s: %v", doc.Filename, err)
				}
			}
		}
	}

	if h.DB == nil {
		return
	}
	sub := domain.Submission{JobText: jobText, CVCount: len(docs)}
	if err := h.DB.Create(&sub).Error; err != nil {
		h.Log.Warnf("failed to archive submission: %v", err)
		return
	}
	for i, doc := range docs {
		up := domain.Upload{
			SubmissionID: sub.ID,
			JobID:        ids[i],
			Filename:     doc.Filename,
			Size:         int64(len(doc.Data)),
		}
		if err := h.DB.Create(&up).Error; err != nil {
			h.Log.Warnf("failed to archive upload %s: %v", doc.Filename, err)
		}
	}
}

func allowedFile(name string) bool {
	return strings.Contains(name, ".") && allowedExtensions[strings.ToLower(name[strings.LastIndex(name, ".")+1:])]
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
