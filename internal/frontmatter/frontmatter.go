// Package frontmatter splits and parses the YAML metadata block at the top of
// a content file.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a front
// matter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Style captures the newline convention of a document so Join can reproduce it.
type Style struct {
	Newline string
}

// Split separates `---` delimited front matter from the Markdown body.
//
// If the document does not open with a delimiter line, had is false and body is
// the full input. A closing delimiter on the final line without a trailing
// newline is accepted.
func Split(content []byte) (fm []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)
	nl := style.Newline

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}
	rest := content[len(open):]

	// Empty block: the closing delimiter immediately follows the opening one.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}
	if bytes.Equal(rest, []byte(delimiter)) {
		return []byte{}, []byte{}, true, style, nil
	}

	closing := []byte(nl + delimiter + nl)
	if idx := bytes.Index(rest, closing); idx >= 0 {
		return rest[:idx+len(nl)], rest[idx+len(closing):], true, style, nil
	}
	if trailing := []byte(nl + delimiter); bytes.HasSuffix(rest, trailing) {
		return rest[:len(rest)-len(delimiter)], []byte{}, true, style, nil
	}
	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// Join reassembles a document from raw front matter and body. If had is false
// the body is returned unchanged.
func Join(fm []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	var buf bytes.Buffer
	buf.Grow(len(fm) + len(body) + 2*(len(delimiter)+len(nl)))
	buf.WriteString(delimiter + nl)
	buf.Write(fm)
	buf.WriteString(delimiter + nl)
	buf.Write(body)
	return buf.Bytes()
}

// ParseYAML decodes raw front matter (without delimiters) into a map.
func ParseYAML(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Parse splits content and decodes its front matter in one step. Documents
// without front matter yield an empty map and the whole input as body.
func Parse(content []byte) (map[string]any, []byte, error) {
	fm, body, _, _, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return nil, nil, err
	}
	return fields, body, nil
}

func detectStyle(content []byte) Style {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return Style{Newline: "\r\n"}
	}
	return Style{Newline: "\n"}
}
