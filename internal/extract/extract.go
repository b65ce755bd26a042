package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

// ErrUnsupportedType reports a payload that is not a PDF.
var ErrUnsupportedType = errors.New("unsupported file type, only PDF is accepted")

// PDFText extracts plain text from an in-memory PDF payload.
// Library used: github.com/ledongthuc/pdf.
func PDFText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !isPDF(mimeType, data) {
		return "", ErrUnsupportedType
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", errors.New("pdf contains no extractable text")
	}
	return text, nil
}

// isPDF accepts either a declared PDF mime type or the %PDF- magic bytes,
// since browser uploads occasionally arrive as application/octet-stream.
func isPDF(mimeType string, data []byte) bool {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == mimePDF {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
