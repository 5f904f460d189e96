package normalize

import (
	"regexp"
	"strings"
)

var (
	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)微信扫码.*`),
		regexp.MustCompile(`(?i)来自.*?直聘`),
		regexp.MustCompile(`(?i)BOSS直聘`),
		regexp.MustCompile(`(?i)boss报`),
		regexp.MustCompile(`(?i)boss分享`),
		regexp.MustCompile(`(?i)kanzhun.*`),
		regexp.MustCompile(`举报`),
		regexp.MustCompile(`分享`),
		regexp.MustCompile(`直聘`),
		regexp.MustCompile(`享举`),
		regexp.MustCompile(`(?i)\s+boss\s+`),
	}
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Denoise strips platform branding from a job description and collapses
// whitespace. Denoise(Denoise(s)) == Denoise(s) for every s.
func Denoise(text string) string {
	cleaned := denoisePass(text)
	// a removal can expose a new match (" boss boss "), so run to a fixpoint;
	// every pass that changes a trimmed string also shortens it
	for {
		next := denoisePass(cleaned)
		if next == cleaned {
			return cleaned
		}
		cleaned = next
	}
}

func denoisePass(text string) string {
	for _, re := range noisePatterns {
		text = re.ReplaceAllString(text, " ")
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}
