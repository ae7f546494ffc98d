package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"stempeluhr/report"
)

// Writer serializes one report document to a file. The CSV and Excel
// adapters consume the identical document; they differ only in rendering.
type Writer interface {
	Write(path string, doc *report.Document) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// DetectFormat infers the output format from a file extension, defaulting
// to CSV.
func DetectFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
