package extract

import "fmt"

const scoringCriteria = "Scoring criteria:\n" +
	"- Research Score: Innovation, methodological rigor, data reliability\n" +
	"- Social Impact Score: Public attention potential, policy relevance, societal impact"

func primarySystemPrompt(domain string) string {
	return fmt.Sprintf("You are a %s expert and researcher. Evaluate research articles and provide scores.", domain)
}

// primaryUserPrompt asks for the JSON object read by the structured strategy.
func primaryUserPrompt(body string) string {
	return "Evaluate this research article and provide scores:\n\n" + body + "\n\n" +
		"IMPORTANT: Respond with ONLY a JSON object in this exact shape (no extra text):\n" +
		`{"research_score": <integer 0-100>, "social_impact_score": <integer 0-100>, ` +
		`"research_justification": "<brief explanation>", "social_justification": "<brief explanation>"}` +
		"\n\n" + scoringCriteria
}

func secondarySystemPrompt(domain string) string {
	return fmt.Sprintf("You are a %s expert. Provide research evaluation scores.", domain)
}

// secondaryUserPrompt asks for the labeled lines read by the labeled strategy.
func secondaryUserPrompt(body string) string {
	return "Rate this research article:\n\n" + body + "\n\n" +
		"Give me:\n" +
		"Research Score: [0-100]\n" +
		"Social Impact Score: [0-100]\n" +
		"Research Justification: [brief explanation]\n" +
		"Social Justification: [brief explanation]\n\n" +
		scoringCriteria
}
