package judge

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const DefaultThreshold = 70

// Verdict is the judge's quality assessment of one test file.
type Verdict struct {
	Passed      bool     `json:"passed"`
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Summary     string   `json:"summary"`
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{[^{}]*\}`)

// ParseVerdict extracts the first JSON object from the agent's reply.
// An unparseable reply becomes a failed verdict carrying the raw text.
func ParseVerdict(response string) Verdict {
	if match := jsonObjectPattern.FindString(response); match != "" {
		var verdict Verdict
		if err := json.Unmarshal([]byte(match), &verdict); err == nil {
			return verdict
		}
	}

	summary := "No response"
	if response != "" {
		summary = response
		if len(summary) > 200 {
			summary = summary[:200]
		}
	}

	return Verdict{
		Issues:  []string{"Failed to parse judge response"},
		Summary: summary,
	}
}

// Heuristic scores a test without the agent: a handful of checks for
// the most common Playwright smells.
func Heuristic(content string, threshold int) Verdict {
	var issues, suggestions []string
	score := 100

	if strings.Contains(content, "page.locator('#") || strings.Contains(content, "page.locator('.") {
		issues = append(issues, "Uses fragile CSS selectors instead of role/text locators")
		suggestions = append(suggestions, "Use getByRole(), getByText(), or getByTestId()")
		score -= 20
	}

	if strings.Contains(content, "page.waitForTimeout") {
		issues = append(issues, "Uses hardcoded timeouts")
		suggestions = append(suggestions, "Use waitFor conditions instead")
		score -= 15
	}

	if !strings.Contains(content, "expect(") {
		issues = append(issues, "No assertions found")
		score -= 30
	}

	if !strings.Contains(content, "test.describe") && strings.Count(content, "test(") > 3 {
		suggestions = append(suggestions, "Consider grouping related tests with test.describe")
		score -= 5
	}

	if score < 0 {
		score = 0
	}

	return Verdict{
		Passed:      score >= threshold,
		Score:       score,
		Issues:      issues,
		Suggestions: suggestions,
		Summary:     heuristicSummary(score),
	}
}

func heuristicSummary(score int) string {
	return fmt.Sprintf("Heuristic evaluation: %d/100", score)
}
