package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"talentscope/cs-evaluator/internal/metrics"
)

// PDFParserService turns résumé PDFs into plain text.
type PDFParserService interface {
	// ExtractText never fails: unreadable documents yield "".
	ExtractText(data []byte) string
	ExtractTextFromFile(filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct {
	logger *zap.Logger
}

func NewPDFParserService(logger *zap.Logger) PDFParserService {
	return &pdfParserService{logger: logger}
}

func (p *pdfParserService) ExtractText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	text, _, err := readPDF(data)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		p.logger.Warn("failed to extract resume text", zap.Int("bytes", len(data)), zap.Error(err))
		return ""
	}

	return CleanText(text)
}

func (p *pdfParserService) ExtractTextFromFile(filePath string) (*PDFContent, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	text, pageCount, err := readPDF(data)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      CleanText(text),
		PageCount: pageCount,
		FilePath:  filePath,
	}, nil
}

// readPDF recovers from panics raised by the parser on malformed input.
func readPDF(data []byte) (text string, pageCount int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pageCount = "", 0
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	pageCount = r.NumPage()

	for pageIndex := 1; pageIndex <= pageCount; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), pageCount, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
