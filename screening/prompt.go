package screening

import "fmt"

// Each input is cut to a bounded prefix so a huge CV cannot blow up model
// latency or cost. Truncation is silent.
const promptCharLimit = 1200

// BuildPrompt renders the scoring instruction for one candidate. It is a
// pure function: same inputs, same prompt.
func BuildPrompt(jobText, cvText string) string {
	return fmt.Sprintf(`You are a recruitment assistant screening a candidate CV against a job description.

Job Description:
%s

Candidate CV:
%s

Evaluate how well the candidate matches the job.

Return strict JSON with structure:
{
  "name": string,
  "contact": string,
  "score": integer,
  "explanation": string,
  "matched_skills": [string]
}

"name" is the candidate's name as written in the CV, "contact" is an email or phone number or "N/A", "score" is the match percentage between 0 and 100, and "matched_skills" lists the job requirements the CV demonstrates.
IMPORTANT: Return ONLY the raw JSON without any markdown formatting, code blocks, or additional text.`,
		truncate(jobText, promptCharLimit), truncate(cvText, promptCharLimit))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
