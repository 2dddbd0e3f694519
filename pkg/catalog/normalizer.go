package catalog

import (
	"regexp"
	"strings"
)

// Normalizer cleans raw scraped catalog rows before indexing.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Patterns for boilerplate that leaks in from scraped product pages.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)GP số\s*\d+[/A-Z\-\s0-9]*`),
	regexp.MustCompile(`(?i)Địa chỉ[:\s].*`),
	regexp.MustCompile(`(?i)Chịu trách nhiệm.*`),
	regexp.MustCompile(`(?i)mình tham khảo`),
	regexp.MustCompile(`(?i)Xem trung tâm bảo hành`),
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonDigitRe   = regexp.MustCompile(`[^0-9]`)
	listSplitRe  = regexp.MustCompile(`[;,/]+`)
)

// CleanText collapses whitespace and strips known noise fragments.
func (n *Normalizer) CleanText(text string) string {
	t := strings.ReplaceAll(text, ";", ". ")
	t = whitespaceRe.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)
	for _, pat := range noisePatterns {
		t = pat.ReplaceAllString(t, "")
	}
	return strings.TrimSpace(t)
}

// NormalizePrice extracts the integer VND amount from a formatted price
// string ("23.990.000₫" → 23990000). Returns 0 when no digits remain.
func (n *Normalizer) NormalizePrice(val string) int64 {
	digits := nonDigitRe.ReplaceAllString(val, "")
	if digits == "" {
		return 0
	}
	var price int64
	for _, c := range digits {
		price = price*10 + int64(c-'0')
	}
	return price
}

// SplitListField splits a "a; b / c" style field into trimmed parts.
func (n *Normalizer) SplitListField(val string) []string {
	parts := listSplitRe.Split(val, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ChunkText splits long content on word boundaries, max maxLen runes
// per chunk.
func (n *Normalizer) ChunkText(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if maxLen <= 0 {
		maxLen = 1000
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + maxLen
		if end < len(runes) {
			// Avoid cutting a word in half
			cut := strings.LastIndex(string(runes[start:end]), " ")
			if cut > 0 {
				end = start + len([]rune(string(runes[start:end])[:cut]))
			}
		} else {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = end
	}
	return chunks
}
