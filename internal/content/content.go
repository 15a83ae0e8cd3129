// Package content defines the compiled post record and the JSON artifact
// that carries it from the compiler to the repository.
package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/alnah/go-folio/internal/frontmatter"
)

// Sentinel errors for artifact handling.
var (
	ErrDecode          = errors.New("artifact is not valid JSON")
	ErrInvalidArtifact = errors.New("artifact does not match schema")
	ErrEncode          = errors.New("artifact encoding failed")
)

// CompiledPost is one post as stored in the artifact. Content is the raw
// Markdown body.
type CompiledPost struct {
	Slug        string                  `json:"slug"`
	Frontmatter frontmatter.Frontmatter `json:"frontmatter"`
	Content     string                  `json:"content"`
}

// schemaURL identifies the embedded schema; nothing is fetched from it.
const schemaURL = "https://go-folio.local/schemas/artifact.json"

//go:embed artifact.schema.json
var schemaJSON []byte

var artifactSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing artifact schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding artifact schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Marshal encodes posts as indented JSON with a trailing newline. Frontmatter
// keys are sorted, so equal input always yields identical bytes.
func Marshal(posts []CompiledPost) ([]byte, error) {
	if posts == nil {
		posts = []CompiledPost{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Decode reads an artifact, validates it against the embedded schema and
// returns its posts in artifact order.
func Decode(r io.Reader) ([]CompiledPost, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	schema, err := artifactSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	var posts []CompiledPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return posts, nil
}
