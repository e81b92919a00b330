// Package document extracts plain text from uploaded files before they are
// sent to the summarization service.
package document

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrNoText indicates the uploaded file contained no extractable text.
var ErrNoText = errors.New("document contains no extractable text")

// ExtractText returns the plain text of an uploaded document. PDF files are
// parsed page by page; anything else is treated as UTF-8 text.
func ExtractText(r io.ReaderAt, size int64, filename string) (string, error) {
	var text string
	var err error

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		text, err = extractPDF(r, size)
	} else {
		text, err = extractPlain(r, size)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(r io.ReaderAt, size int64) (string, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	content, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return string(content), nil
}

func extractPlain(r io.ReaderAt, size int64) (string, error) {
	content, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("document is not valid UTF-8 text")
	}
	return string(content), nil
}
