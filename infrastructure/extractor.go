package infrastructure

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// TextExtractor converts uploaded CV files into plain text. Anything that
// cannot be parsed degrades to empty text with a logged warning; an
// unreadable CV must never take its screening job down with it.
type TextExtractor struct {
	log *logrus.Logger
}

func NewTextExtractor(log *logrus.Logger) *TextExtractor {
	return &TextExtractor{log: log}
}

// Extract returns the plain text of the file, choosing a parser from the
// filename extension. Unsupported formats yield empty text.
func (e *TextExtractor) Extract(data []byte, filename string) (text string) {
	// Third-party parsers can panic on corrupt input.
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("file", filename).Warnf("extractor panic: %v", r)
			text = ""
		}
	}()

	switch fileExtension(filename) {
	case "txt":
		return string(data)
	case "pdf":
		out, err := extractPDFText(data)
		if err != nil {
			e.log.WithField("file", filename).Warnf("pdf extraction failed: %v", err)
			return ""
		}
		return out
	case "doc", "docx":
		out, err := extractDocxText(data)
		if err != nil {
			e.log.WithField("file", filename).Warnf("docx extraction failed: %v", err)
			return ""
		}
		return out
	default:
		e.log.WithField("file", filename).Warn("unsupported file format, skipping extraction")
		return ""
	}
}

// extractPDFText extracts text from every readable page of a PDF.
func extractPDFText(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var textBuilder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue // skip pages with errors
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(textBuilder.String())
	if result == "" {
		return "", fmt.Errorf("no text could be extracted from any page of the PDF")
	}
	return result, nil
}

var xmlTags = regexp.MustCompile(`<[^>]+>`)

// extractDocxText reads the document body and strips the WordprocessingML
// markup, keeping paragraph breaks.
func extractDocxText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTags.ReplaceAllString(content, "")
	return strings.TrimSpace(content), nil
}

func fileExtension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
