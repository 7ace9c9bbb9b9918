package ingest

import (
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// FitzExtractor extracts plain text from PDF manuals using MuPDF.
type FitzExtractor struct{}

// NewFitzExtractor creates a new PDF text extractor.
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// Text concatenates the text of every page, separated by blank lines.
func (e *FitzExtractor) Text(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", domain.IOError("open pdf", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", domain.IOError("extract page text", err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return strings.TrimSpace(sb.String()), nil
}
