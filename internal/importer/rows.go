package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
	"github.com/jcfinanceiro/jcfinanceiro/internal/textutil"
)

// Canonical column names. Statement headers are mapped onto these before
// rows are decoded.
const (
	colDate        = "data"
	colDescription = "historico"
	colDocument    = "documento"
	colAmount      = "valor"
	colCredit      = "credito"
	colDebit       = "debito"
)

// excelEpoch is day zero of spreadsheet date serials.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// canonicalColumn maps a header cell onto a canonical column name, or "".
func canonicalColumn(cell string) string {
	h := textutil.Normalize(cell)
	switch {
	case h == "":
		return ""
	case strings.HasPrefix(h, "DATA"), h == "DT", strings.HasPrefix(h, "DT "):
		return colDate
	case strings.HasPrefix(h, "HIST"), strings.HasPrefix(h, "DESCR"), strings.HasPrefix(h, "LANCAMENTO"):
		return colDescription
	case strings.HasPrefix(h, "DOC"), strings.HasPrefix(h, "N DOC"), strings.HasPrefix(h, "NUMERO DOC"):
		return colDocument
	case strings.HasPrefix(h, "VALOR"):
		return colAmount
	case strings.HasPrefix(h, "CREDITO"), strings.HasPrefix(h, "ENTRADA"):
		return colCredit
	case strings.HasPrefix(h, "DEBITO"), strings.HasPrefix(h, "SAIDA"):
		return colDebit
	}
	return ""
}

// isHeader reports whether a row names at least a date, a description and
// an amount column.
func isHeader(row []string) bool {
	seen := make(map[string]bool)
	for _, c := range row {
		seen[canonicalColumn(c)] = true
	}
	return seen[colDate] && seen[colDescription] && (seen[colAmount] || seen[colCredit] || seen[colDebit])
}

// record is one statement line with its cells still as text.
type record struct {
	Date        string `csv:"data"`
	Description string `csv:"historico"`
	Document    string `csv:"documento"`
	Amount      string `csv:"valor"`
	Credit      string `csv:"credito"`
	Debit       string `csv:"debito"`
}

// skip reports whether the line carries no movement: blank lines and
// balance lines ("SALDO ANTERIOR", "SALDO DO DIA").
func (r record) skip() bool {
	if strings.TrimSpace(r.Date) == "" {
		return true
	}
	return strings.HasPrefix(textutil.Normalize(r.Description), "SALDO")
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && !strings.ContainsAny(s, "/-") {
		return dateutil.Day(excelEpoch.AddDate(0, 0, int(serial))), nil
	}
	return dateutil.Parse(s)
}

// parseAmount reads a BRL amount. A trailing "D" marks a debit and a
// trailing "C" a credit, as some banks print them.
func parseAmount(s string) (decimal.Decimal, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	neg := false
	switch {
	case strings.HasSuffix(v, "D"):
		neg = true
		v = strings.TrimSpace(strings.TrimSuffix(v, "D"))
	case strings.HasSuffix(v, "C"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "C"))
	}
	d, err := money.ParseBRL(v)
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Abs().Neg()
	}
	return d, nil
}

func (r record) amount() (decimal.Decimal, error) {
	if strings.TrimSpace(r.Amount) != "" {
		return parseAmount(r.Amount)
	}
	total := decimal.Zero
	if strings.TrimSpace(r.Credit) != "" {
		c, err := parseAmount(r.Credit)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(c.Abs())
	}
	if strings.TrimSpace(r.Debit) != "" {
		d, err := parseAmount(r.Debit)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Sub(d.Abs())
	}
	return total, nil
}

func (r record) transaction() (model.BankTransaction, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", r.Date, err)
	}
	amount, err := r.amount()
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount: %w", err)
	}
	typ := "credit"
	if amount.IsNegative() {
		typ = "debit"
	}
	return model.BankTransaction{
		Date:        date,
		Description: strings.Join(strings.Fields(r.Description), " "),
		Amount:      amount,
		Reference:   strings.TrimSpace(r.Document),
		Type:        typ,
	}, nil
}

// toTransactions converts records, skipping balance lines, and assigns each
// transaction a reference that is stable across imports of the same file.
func toTransactions(records []record, firstLine int) ([]model.BankTransaction, error) {
	var txns []model.BankTransaction
	seen := make(map[string]int)
	for i, rec := range records {
		if rec.skip() {
			continue
		}
		txn, err := rec.transaction()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", firstLine+i, err)
		}
		ref := makeRef(txn)
		seen[ref]++
		if n := seen[ref]; n > 1 {
			ref = fmt.Sprintf("%s_%d", ref, n)
		}
		txn.Reference = ref
		txns = append(txns, txn)
	}
	return txns, nil
}

// makeRef builds a reference like 20250103_PIX RECEBIDO_15000 from the
// date, the document number (or a description prefix) and the cents.
func makeRef(txn model.BankTransaction) string {
	key := txn.Reference
	if key == "" {
		key = textutil.Normalize(txn.Description)
		if len(key) > 20 {
			key = key[:20]
		}
	}
	return fmt.Sprintf("%s_%s_%d", txn.Date.Format("20060102"), key, money.Cents(txn.Amount))
}
