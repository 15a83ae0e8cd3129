package pipeline

import (
	"regexp"
	"strings"
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// NormalizeMarkdown drops a leading byte order mark and converts \r\n and
// \r line endings to \n.
func NormalizeMarkdown(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	return crlfOrCR.ReplaceAllString(content, "\n")
}
