// Package frontmatter splits content files into a metadata block and a
// markdown body, and normalizes the untyped metadata into Frontmatter.
package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-folio/internal/yamlutil"
)

// Delimiter opens and closes a frontmatter block on a line of its own.
const Delimiter = "---"

// ErrParse indicates the frontmatter block could not be decoded.
var ErrParse = errors.New("frontmatter parse failed")

// Document is one content file split into metadata and body.
type Document struct {
	Meta  Frontmatter
	Body  string
	Found bool // false when the file carries no (or an unterminated) block
}

var (
	// key: value, with optional indentation.
	keyValueLine = regexp.MustCompile(`^(\s*[\w.-]+\s*:[ \t]+)(.+?)\s*$`)

	// - item
	listItemLine = regexp.MustCompile(`^(\s*-[ \t]+)(.+?)\s*$`)
)

// blockFormat decodes the block through yamlutil after quoting colon values.
var blockFormat = frontmatter.NewFormat(Delimiter, Delimiter, unmarshalBlock)

// Split separates the frontmatter block from the body. The text must start
// with a delimiter line and contain a closing delimiter line; otherwise ok
// is false and body is the whole text.
func Split(text string) (block, body string, ok bool) {
	lines := strings.Split(strings.TrimPrefix(text, "\ufeff"), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != Delimiter {
		return "", text, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == Delimiter {
			block = strings.Join(lines[1:i], "\n")
			body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return block, body, true
		}
	}

	return "", text, false
}

// Parse splits text and decodes its frontmatter. A file without a block
// (or with an unterminated one) is not an error: it yields empty metadata
// and the whole text as body.
func Parse(text string) (Document, error) {
	if _, _, ok := Split(text); !ok {
		return Document{Meta: Frontmatter{}, Body: text}, nil
	}

	normalized := strings.ReplaceAll(strings.TrimPrefix(text, "\ufeff"), "\r\n", "\n")

	var raw map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(normalized), &raw, blockFormat)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	CoerceBooleans(raw)

	return Document{
		Meta:  FromMap(raw),
		Body:  strings.TrimSpace(string(rest)),
		Found: true,
	}, nil
}

func unmarshalBlock(data []byte, v any) error {
	dest, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("unsupported destination %T", v)
	}
	m, err := yamlutil.DecodeMap([]byte(QuoteColonValues(string(data))))
	if err != nil {
		return err
	}
	*dest = m
	return nil
}

// QuoteColonValues wraps unquoted scalar values that contain a colon in
// double quotes, so "title: Chapter 2: Parallel Evolution" decodes to the
// whole string instead of failing at the embedded colon.
func QuoteColonValues(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		var m []string
		if strings.HasPrefix(trimmed, "-") {
			m = listItemLine.FindStringSubmatch(line)
		} else {
			m = keyValueLine.FindStringSubmatch(line)
		}
		if m == nil || !needsQuoting(m[2]) {
			continue
		}
		lines[i] = m[1] + quote(m[2])
	}
	return strings.Join(lines, "\n")
}

func needsQuoting(value string) bool {
	if !strings.Contains(value, ":") {
		return false
	}
	switch value[0] {
	case '"', '\'', '[', '{', '|', '>', '&', '*', '!':
		return false
	}
	return true
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// CoerceBooleans turns the literal strings "true" and "false" into real
// booleans. String-typed known keys (title, slug, ...) are left alone.
func CoerceBooleans(m map[string]any) {
	for key, value := range m {
		s, ok := value.(string)
		if !ok || (s != "true" && s != "false") {
			continue
		}
		if stringKeys[key] {
			continue
		}
		m[key] = s == "true"
	}
}
