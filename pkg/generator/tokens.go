package generator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wordPattern      = regexp.MustCompile(`\S+`)
	codeBlockPattern = regexp.MustCompile("```[\\s\\S]*?```")
)

// EstimateTokens gives a rough token count for prompt text: the mean of
// chars/4 and words*1.3, with fenced code counted at chars/3.
func EstimateTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	baseEstimate := len(text) / 4
	wordEstimate := int(float64(len(wordPattern.FindAllString(text, -1))) * 1.3)
	estimate := (baseEstimate + wordEstimate) / 2

	for _, block := range codeBlockPattern.FindAllString(text, -1) {
		estimate += len(block)/3 - len(block)/4
	}

	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

// FormatTokenCount formats the token count for display
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	} else if tokens < 10000 {
		return fmt.Sprintf("~%.1fK tokens", float64(tokens)/1000)
	}
	return fmt.Sprintf("~%.0fK tokens", float64(tokens)/1000)
}

// PromptBudget places tokens against the smallest common context window
// that fits it. status is "good" under 50%, "warning" under 80%, else
// "danger".
func PromptBudget(tokens int) (percentage int, limit int, status string) {
	limits := []int{4096, 8192, 16384, 32768, 131072}

	limit = limits[len(limits)-1]
	for _, l := range limits {
		if tokens <= l {
			limit = l
			break
		}
	}

	percentage = (tokens * 100) / limit
	switch {
	case percentage < 50:
		status = "good"
	case percentage < 80:
		status = "warning"
	default:
		status = "danger"
	}
	return percentage, limit, status
}
