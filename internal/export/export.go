package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	dtos "todolist/internal/model/DTOs"
	"todolist/internal/service"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Exporter renders the current task list as a downloadable document.
type Exporter struct{ svc service.TaskService }

func NewExporter(svc service.TaskService) *Exporter { return &Exporter{svc: svc} }

// ContentType returns the MIME type for a supported format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return "text/csv"
	case "pdf":
		return "application/pdf"
	default:
		return "application/json"
	}
}

func (e *Exporter) Export(ctx context.Context, format string) ([]byte, error) {
	rows := dtos.FromList(e.svc.List(ctx))
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(rows, "", "  ")
	case "csv":
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"no", "title", "category", "due_date", "status"})
		for _, r := range rows {
			_ = w.Write([]string{strconv.Itoa(r.No), r.Title, r.Category, r.DueDate, r.Status})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case "pdf":
		return renderPDF(rows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderPDF(rows []dtos.TaskResponse) ([]byte, error) {
	widths := []float64{12, 78, 25, 30, 35}
	header := []string{"No", "Title", "Category", "Due date", "Status"}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	if len(rows) == 0 {
		pdf.CellFormat(sum(widths), 7, "No tasks available", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, r := range rows {
		cells := []string{strconv.Itoa(r.No), tr(r.Title), r.CategoryLabel, r.DueDate, r.Status}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}
