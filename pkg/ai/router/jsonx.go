package router

import (
	"errors"
	"regexp"
	"strings"
)

var errNoJSONBlock = errors.New("no JSON object found in model output")

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	pyLiteralRe     = regexp.MustCompile(`\b(True|False|None)\b`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	singleQuoteRe   = regexp.MustCompile(`'([^']*)'`)
)

// extractJSONBlock pulls the first balanced {...} object out of raw
// model text, unwrapping a markdown code fence if present.
func extractJSONBlock(raw string) (string, error) {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}

	start := strings.Index(raw, "{")
	if start < 0 {
		return "", errNoJSONBlock
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1], nil
				}
			}
		}
	}
	return "", errNoJSONBlock
}

// repairJSON fixes the artifacts models commonly emit instead of
// strict JSON: Python literal spellings, single-quoted strings and
// trailing commas.
func repairJSON(s string) string {
	s = pyLiteralRe.ReplaceAllStringFunc(s, func(lit string) string {
		switch lit {
		case "True":
			return "true"
		case "False":
			return "false"
		default:
			return "null"
		}
	})
	s = singleQuoteRe.ReplaceAllString(s, `"$1"`)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return s
}
