package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// SpreadsheetParser parses statements saved as XLSX or legacy XLS. The
// first sheet is read and the header row is located by its keywords.
type SpreadsheetParser struct {
	Name string // "xlsx" or "xls"; both formats are detected from content
}

// Format returns the parser name.
func (p *SpreadsheetParser) Format() string { return p.Name }

// Parse reads the first sheet of a workbook and returns BankTransactions.
func (p *SpreadsheetParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	rows, err := readRows(data)
	if err != nil {
		return nil, err
	}

	header := -1
	for i, row := range rows {
		if isHeader(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, fmt.Errorf("no header with date, description and amount columns")
	}

	cols := make(map[string]int)
	for i, cell := range rows[header] {
		if c := canonicalColumn(cell); c != "" {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	get := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]record, 0, len(rows)-header-1)
	for _, row := range rows[header+1:] {
		records = append(records, record{
			Date:        get(row, colDate),
			Description: get(row, colDescription),
			Document:    get(row, colDocument),
			Amount:      get(row, colAmount),
			Credit:      get(row, colCredit),
			Debit:       get(row, colDebit),
		})
	}
	return toTransactions(records, header+2)
}

// readRows returns the cells of the first sheet, trying XLSX first and XLS
// second.
func readRows(data []byte) ([][]string, error) {
	if f, err := excelize.OpenReader(bytes.NewReader(data)); err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
		}
		return rows, nil
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported workbook format: %w", err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("reading xls sheet: %w", err)
	}
	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
