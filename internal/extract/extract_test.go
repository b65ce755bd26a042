package extract

import (
	"context"
	"errors"
	"testing"
)

func TestPDFText_RejectsNonPDF(t *testing.T) {
	_, err := PDFText(context.Background(), []byte("plain text resume"), "text/plain")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestPDFText_SniffsMagicBytesDespiteOctetStream(t *testing.T) {
	// Truncated payload with the PDF magic: passes the type gate but fails
	// parsing, proving the sniff path is taken.
	_, err := PDFText(context.Background(), []byte("%PDF-1.7 truncated"), "application/octet-stream")
	if errors.Is(err, ErrUnsupportedType) {
		t.Fatal("magic-byte payload should not be rejected as unsupported")
	}
	if err == nil {
		t.Fatal("expected parse error for truncated pdf")
	}
}

func TestPDFText_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PDFText(ctx, []byte("%PDF-1.7"), "application/pdf"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestIsPDF(t *testing.T) {
	cases := []struct {
		name string
		mime string
		data []byte
		want bool
	}{
		{"declared mime", "application/pdf", []byte("anything"), true},
		{"mime with charset", "application/pdf; charset=binary", nil, true},
		{"magic bytes", "application/octet-stream", []byte("%PDF-1.4"), true},
		{"neither", "image/png", []byte{0x89, 'P', 'N', 'G'}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isPDF(tc.mime, tc.data); got != tc.want {
				t.Errorf("isPDF(%q) = %v, want %v", tc.mime, got, tc.want)
			}
		})
	}
}
