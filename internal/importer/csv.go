package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser parses statement exports of Brazilian banks: semicolon
// separated, usually ISO-8859-1, with a "Data;Histórico;Documento;Valor"
// header that may be preceded by account information lines.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a bank CSV and returns BankTransactions.
func (p *CSVParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = detectComma(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
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

	canon := make([]string, len(rows[header]))
	taken := make(map[string]bool)
	for i, cell := range rows[header] {
		c := canonicalColumn(cell)
		if c == "" || taken[c] {
			c = fmt.Sprintf("ignored_%d", i)
		}
		taken[c] = true
		canon[i] = c
	}
	body := append([][]string{canon}, pad(rows[header+1:], len(canon))...)

	var records []record
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: body}, &records); err != nil {
		return nil, fmt.Errorf("decoding csv rows: %w", err)
	}
	return toTransactions(records, header+2)
}

// decode returns data as UTF-8, dropping a BOM. Input that is not valid
// UTF-8 is read as ISO-8859-1.
func decode(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding ISO-8859-1: %w", err)
	}
	return out, nil
}

// detectComma picks ';' unless the first line has more commas.
func detectComma(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	if bytes.Count(line, []byte(",")) > bytes.Count(line, []byte(";")) {
		return ','
	}
	return ';'
}

// pad extends short rows so every row has n cells.
func pad(rows [][]string, n int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < n {
			row = append(row, make([]string, n-len(row))...)
		}
		out = append(out, row[:n])
	}
	return out
}

// rowsReader feeds rows already split into cells to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}
