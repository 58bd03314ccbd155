// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/jobscout/pkg/types"
)

// maxDescriptionChars caps the description text included in a scoring
// prompt, keeping each request inside the model's token budget.
const maxDescriptionChars = 2000

// scoringPromptTmpl is the prompt sent to the model for each record. The
// score-band anchors keep the model's calibration stable across calls;
// the fixed three-line response format is what parseStructured expects.
var scoringPromptTmpl = template.Must(template.New("scoring").Parse(`You are an expert job matching AI. Analyze this job comprehensively for relevance to the user's interests.

USER INTEREST: {{.Target}}

JOB INFORMATION:
- Title: {{.Title}}
- Company: {{.Company}}
- Location: {{.Location}}
- Description: {{.Description}}

Analyze the job description for:
1. Required skills and technologies
2. Job responsibilities and duties
3. Experience level and qualifications
4. Industry and domain focus
5. Team and role context

Provide a detailed analysis and score this job's relevance from 0-100, where:
- 0-20: Completely irrelevant (e.g., retail manager for data scientist)
- 21-40: Slightly relevant (e.g., business analyst for data scientist)
- 41-60: Moderately relevant (e.g., data analyst for data scientist)
- 61-80: Highly relevant (e.g., ML engineer for data scientist)
- 81-100: Perfect match (e.g., data scientist for data scientist)

Consider both the job title AND the detailed description content.

Respond in this exact format:
SCORE: [0-100]
CONFIDENCE: [HIGH/MEDIUM/LOW]
REASONING: [2-3 sentences explaining the score based on title and description analysis]
`))

// buildPrompt renders the scoring prompt for one record, truncating the
// description to maxDescriptionChars.
func buildPrompt(record types.JobRecord, target string) (string, error) {
	desc := record.Description
	if len(desc) > maxDescriptionChars {
		desc = desc[:maxDescriptionChars] + "..."
	}

	var buf bytes.Buffer
	err := scoringPromptTmpl.Execute(&buf, struct {
		Target, Title, Company, Location, Description string
	}{
		Target:      target,
		Title:       record.Title,
		Company:     record.Company,
		Location:    record.Location,
		Description: desc,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
