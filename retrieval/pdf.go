package retrieval

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// ExtractPDFText pulls plain text out of a PDF for ingestion, with page
// markers so retrieved chunks can be traced back. Unreadable pages are
// skipped; the document only fails when nothing at all could be read.
func ExtractPDFText(path string, logger *zap.Logger) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var fullText strings.Builder
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			if logger != nil {
				logger.Warn("Skipping null PDF page", zap.Int("page", pageNum))
			}
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			if logger != nil {
				logger.Warn("Failed to extract text from PDF page",
					zap.Int("page", pageNum),
					zap.Error(err))
			}
			continue
		}

		fmt.Fprintf(&fullText, "[Page %d]\n%s\n\n", pageNum, strings.TrimSpace(text))
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		return "", fmt.Errorf("no extractable text in PDF %s", path)
	}
	return result, nil
}
