package letters

import (
	_ "embed"
	"strings"
)

//go:embed prompts/cover_letter_v1.txt
var coverLetterTemplate string

var toneDirectives = map[string]string{
	ToneCasual:     "Write in a relaxed, conversational voice while staying professional.",
	ToneFormal:     "Write in a polished, traditional business voice.",
	ToneConfident:  "Write assertively, leading with accomplishments and impact.",
	TonePersuasive: "Write to convince, connecting the candidate's experience directly to the company's needs.",
}

var styleDirectives = map[string]string{
	StyleNarrative:   "Use flowing paragraphs that tell a story.",
	StyleBulletPoint: "Use short paragraphs with bullet points for key qualifications.",
	StyleHybrid:      "Open and close with paragraphs, with a short bulleted list of highlights in the middle.",
}

// BuildPrompt renders the generation prompt for one job. It is
// deterministic: same inputs, same prompt.
func BuildPrompt(job JobInput, tone, style, resume, coverLetter string) string {
	descSection := "JOB DESCRIPTION:\n" + strings.TrimSpace(job.Description)
	if strings.TrimSpace(job.Description) == "" {
		descSection = "No job description is available. Infer the likely responsibilities and requirements from the job title and company."
	}

	r := strings.NewReplacer(
		"{{TONE}}", tone,
		"{{TONE_DIRECTIVE}}", toneDirectives[tone],
		"{{STYLE}}", style,
		"{{STYLE_DIRECTIVE}}", styleDirectives[style],
		"{{RESUME}}", strings.TrimSpace(resume),
		"{{COVER_LETTER}}", strings.TrimSpace(coverLetter),
		"{{JOB_TITLE}}", strings.TrimSpace(job.Title),
		"{{JOB_COMPANY}}", strings.TrimSpace(job.Company),
		"{{JOB_DESCRIPTION_SECTION}}", descSection,
	)
	return r.Replace(coverLetterTemplate)
}
