package extractor

import (
	"context"
	"fmt"
	"iter"
	"os/exec"
	"regexp"
	"strings"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

// TextExtractor turns a PDF into layout-preserving text, pages separated by form feeds.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// PDFToText implements TextExtractor with the pdftotext command (poppler-utils).
type PDFToText struct {
	Binary string
}

// NewPDFToText creates a PDFToText that runs "pdftotext" from PATH.
func NewPDFToText() *PDFToText {
	return &PDFToText{Binary: "pdftotext"}
}

// ExtractText runs pdftotext -layout and returns its standard output.
func (p *PDFToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	cmd := exec.CommandContext(ctx, p.Binary, "-layout", pdfPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("error running %s: %w", p.Binary, err)
	}
	return string(out), nil
}

// MockTextExtractor returns predefined text, for tests.
type MockTextExtractor struct {
	MockText string
	MockErr  error
}

// ExtractText returns the predefined text or error.
func (m *MockTextExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if m.MockErr != nil {
		return "", m.MockErr
	}
	return m.MockText, nil
}

// PDFExtractor detects tables in the layout text of a PDF statement.
type PDFExtractor struct {
	text   TextExtractor
	logger logging.Logger
}

// NewPDFExtractor creates a PDFExtractor on top of a TextExtractor.
func NewPDFExtractor(text TextExtractor, logger logging.Logger) *PDFExtractor {
	return &PDFExtractor{text: text, logger: logger}
}

// Extract implements Extractor.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (iter.Seq[models.RawRow], error) {
	text, err := e.text.ExtractText(ctx, path)
	if err != nil {
		return emptyRows, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF",
			Msg:            fmt.Sprintf("text extraction failed: %v", err),
		}
	}

	tables := TablesFromLayout(text)
	e.logger.Debug("Detected tables in PDF",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(tables)))
	return rowsFromTables(path, tables, e.logger)
}

var columnGap = regexp.MustCompile(`\s{2,}`)

type cell struct {
	text  string
	start int
	end   int
}

// splitLayoutLine splits a layout line on runs of two or more spaces, keeping each
// cell's column offsets.
func splitLayoutLine(line string) []cell {
	line = strings.TrimRight(strings.ReplaceAll(line, "\t", "    "), " ")
	var cells []cell
	pos := 0
	for _, gap := range columnGap.FindAllStringIndex(line, -1) {
		if gap[0] > pos {
			cells = append(cells, cell{text: line[pos:gap[0]], start: pos, end: gap[0]})
		}
		pos = gap[1]
	}
	if pos < len(line) {
		cells = append(cells, cell{text: line[pos:], start: pos, end: len(line)})
	}
	return cells
}

// TablesFromLayout detects tables in pdftotext -layout output. Each page is scanned on
// its own; a table is a run of lines with at least two cells separated by wide gaps, the
// first of which is the header. Single-cell indented lines continue the previous row and
// any other single-cell line ends the table. A header followed by a blank line before any
// data row is dropped, so key/value preambles are not mistaken for headers. Tables without
// data rows are discarded.
func TablesFromLayout(text string) []Table {
	var tables []Table
	for _, page := range strings.Split(text, "\f") {
		tables = append(tables, tablesFromPage(page)...)
	}
	return tables
}

func tablesFromPage(page string) []Table {
	var (
		tables []Table
		header []cell
		rows   [][]string
	)

	flush := func() {
		if header != nil && len(rows) > 0 {
			tables = append(tables, Table{Header: cellTexts(header), Rows: rows})
		}
		header, rows = nil, nil
	}

	for _, line := range strings.Split(page, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(rows) == 0 {
				header = nil
			}
			continue
		}
		cells := splitLayoutLine(line)

		switch {
		case len(cells) >= 2 && header == nil:
			header = cells
		case len(cells) >= 2:
			rows = append(rows, alignCells(header, cells))
		case header != nil && len(rows) > 0 && cells[0].start > 0:
			appendContinuation(header, rows[len(rows)-1], cells[0])
		default:
			flush()
		}
	}
	flush()
	return tables
}

func cellTexts(cells []cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c.text)
	}
	return out
}

// alignCells assigns data cells to header columns. When the counts match the mapping is
// positional; otherwise each cell goes to the column it overlaps most.
func alignCells(header, cells []cell) []string {
	values := make([]string, len(header))
	if len(cells) == len(header) {
		return cellTexts(cells)
	}
	for _, c := range cells {
		i := nearestColumn(header, c)
		if values[i] != "" {
			values[i] += " "
		}
		values[i] += strings.TrimSpace(c.text)
	}
	return values
}

func appendContinuation(header []cell, row []string, c cell) {
	i := nearestColumn(header, c)
	text := strings.TrimSpace(c.text)
	if row[i] == "" {
		row[i] = text
		return
	}
	row[i] += " " + text
}

func nearestColumn(header []cell, c cell) int {
	best, bestScore := 0, -1<<31
	for i, h := range header {
		end := h.end
		if i+1 < len(header) {
			end = header[i+1].start
		} else if c.end > end {
			end = c.end
		}
		overlap := min(end, c.end) - max(h.start, c.start)
		if overlap > bestScore {
			best, bestScore = i, overlap
		}
	}
	return best
}
