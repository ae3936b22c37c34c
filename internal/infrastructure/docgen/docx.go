// Package docgen fills placeholder templates for back-office documents.
//
// Templates are ordinary .docx files edited in Word. A placeholder is a name
// in braces, e.g. {bill_no}. Word often splits such text across several runs
// when it is typed or formatted; the filler matches placeholders on the text
// content and keeps the intervening markup so the part stays well formed.
package docgen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// DocxRenderer implements ports.DocumentRenderer for Office Open XML files.
type DocxRenderer struct{}

func NewDocxRenderer() *DocxRenderer { return &DocxRenderer{} }

// Render copies the archive and substitutes placeholders in every XML part
// under word/ (body, headers, footers). Unknown names render as empty text.
func (DocxRenderer) Render(template []byte, values map[string]string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTemplate, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range zr.File {
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidTemplate, f.Name, err)
		}
		if isContentPart(f.Name) {
			data = FillXML(data, values)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func isContentPart(name string) bool {
	return path.Dir(name) == "word" && path.Ext(name) == ".xml"
}

// FillXML replaces {name} placeholders in the character data of an XML
// document. Markup inside a placeholder is preserved after the value.
func FillXML(doc []byte, values map[string]string) []byte {
	var out bytes.Buffer
	out.Grow(len(doc))

	i := 0
	for i < len(doc) {
		c := doc[i]
		if c == '<' {
			end := tagEnd(doc, i)
			out.Write(doc[i:end])
			i = end
			continue
		}
		if c != '{' {
			out.WriteByte(c)
			i++
			continue
		}

		name, markup, next, ok := scanPlaceholder(doc, i+1)
		if !ok {
			out.WriteByte(c)
			i++
			continue
		}
		out.WriteString(escape(values[name]))
		out.Write(markup)
		i = next
	}
	return out.Bytes()
}

// scanPlaceholder reads a placeholder name starting just after '{'. It
// returns the name, the tags found inside it and the index after '}'.
func scanPlaceholder(doc []byte, i int) (string, []byte, int, bool) {
	var name strings.Builder
	var markup bytes.Buffer
	for i < len(doc) {
		c := doc[i]
		switch {
		case c == '<':
			end := tagEnd(doc, i)
			markup.Write(doc[i:end])
			i = end
		case c == '}':
			if name.Len() == 0 {
				return "", nil, 0, false
			}
			return name.String(), markup.Bytes(), i + 1, true
		case isNameByte(c, name.Len() == 0):
			name.WriteByte(c)
			i++
		default:
			return "", nil, 0, false
		}
	}
	return "", nil, 0, false
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

func tagEnd(doc []byte, i int) int {
	j := bytes.IndexByte(doc[i:], '>')
	if j < 0 {
		return len(doc)
	}
	return i + j + 1
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
