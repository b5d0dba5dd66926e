// Package frontmatter reads and writes markdown documents that open with a
// YAML header between --- lines. The exported .md page of a model uses it to
// record which model and which generated text the page belongs to.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delim = "---\n"

var (
	ErrNoOpening = errors.New("frontmatter: missing opening --- delimiter")
	ErrNoClosing = errors.New("frontmatter: missing closing --- delimiter")
)

// Split separates a document into its raw YAML header and body. The closing
// delimiter and the newline after it belong to neither part.
func Split(doc []byte) (header, body []byte, err error) {
	if !bytes.HasPrefix(doc, []byte(delim)) {
		return nil, nil, ErrNoOpening
	}
	rest := doc[len(delim):]
	// An empty header closes immediately.
	if bytes.HasPrefix(rest, []byte(delim)) {
		return nil, rest[len(delim):], nil
	}
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, nil, ErrNoClosing
	}
	header = rest[:idx+1]
	body = rest[idx+len("\n---"):]
	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	}
	return header, body, nil
}

// Decode unmarshals the header of doc into v and returns the body.
func Decode(doc []byte, v any) (body []byte, err error) {
	header, body, err := Split(doc)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(header, v); err != nil {
		return nil, fmt.Errorf("frontmatter: unmarshal: %w", err)
	}
	return body, nil
}

// Encode renders v as the header of a document followed by body.
func Encode(v any, body string) ([]byte, error) {
	header, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(delim)
	buf.Write(header)
	buf.WriteString(delim)
	buf.WriteString(body)
	return buf.Bytes(), nil
}
