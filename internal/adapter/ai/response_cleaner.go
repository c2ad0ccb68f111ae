package ai

import (
	"errors"
	"regexp"
	"strings"
)

var (
	errNoJSONObject = errors.New("no JSON object found in response")
	codeFenceRe     = regexp.MustCompile("```(?:json|JSON)?")
)

// ExtractJSONObject returns the first JSON object embedded in a model
// response. Code fences and surrounding prose are dropped. The end of the
// object is the brace matching the first '{' (string contents ignored), or
// the last '}' when the braces never balance.
func ExtractJSONObject(raw string) (string, error) {
	s := codeFenceRe.ReplaceAllString(raw, "")
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errNoJSONObject
	}
	if end := matchingBrace(s, start); end > 0 {
		return s[start : end+1], nil
	}
	if last := strings.LastIndexByte(s, '}'); last > start {
		return s[start : last+1], nil
	}
	return "", errors.New("unterminated JSON object")
}

func matchingBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// RepairTrailingCommas removes commas that directly precede a closing
// bracket or brace outside string literals, e.g. `["a","b",]`.
func RepairTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			b.WriteByte(ch)
			continue
		}
		if ch == '"' {
			inString = true
		}
		if ch == ',' {
			j := i + 1
			for j < len(s) && strings.IndexByte(" \t\r\n", s[j]) >= 0 {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}
