package ebay

import (
	"regexp"
	"strings"
)

// Grading label patterns matched against lowercased listing titles.
// Order matters: the first match wins.
var gradePatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"PSA", regexp.MustCompile(`\bpsa[\s\-]?(\d{1,2}(?:\.\d+)?)\b`)},
	{"BGS", regexp.MustCompile(`\bbgs[\s\-]?(\d{1,2}(?:\.\d+)?)\b`)},
	{"CGC", regexp.MustCompile(`\bcgc[\s\-]?(\d{1,2}(?:\.\d+)?)\b`)},
}

// DetectGrade classifies a listing title into a grading bucket.
// Titles with no recognized grading label count as raw.
func DetectGrade(title string) string {
	if title == "" {
		return "raw"
	}
	t := strings.ToLower(title)
	for _, g := range gradePatterns {
		if g.pattern.MatchString(t) {
			return g.label
		}
	}
	return "raw"
}
