package categories

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

const (
	numFields   = 4
	colCode     = 0
	colName     = 1
	colType     = 2
	colDREGroup = 3
)

// Header is the first row of a chart CSV.
var Header = []string{"code", "name", "type", "dre_group"}

// ReadCategories reads a chart CSV. IDs and parents are left empty; parents
// are resolved from codes when the chart is stored.
func ReadCategories(r io.Reader) ([]model.Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var cats []model.Category
	for i, rec := range records[1:] {
		c, err := UnmarshalCategory(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// WriteCategories writes a chart CSV.
func WriteCategories(w io.Writer, cats []model.Category) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range cats {
		if err := cw.Write(MarshalCategory(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCategory converts a Category to a CSV row.
func MarshalCategory(c model.Category) []string {
	row := make([]string, numFields)
	row[colCode] = c.Code
	row[colName] = c.Name
	row[colType] = string(c.Type)
	row[colDREGroup] = string(c.DREGroup)
	return row
}

// UnmarshalCategory converts a CSV row to an active Category.
func UnmarshalCategory(record []string) (model.Category, error) {
	if len(record) != numFields {
		return model.Category{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	code := strings.TrimSpace(record[colCode])
	if _, err := id.ParseCode(code); err != nil {
		return model.Category{}, err
	}
	typ := model.CategoryType(strings.TrimSpace(record[colType]))
	if !typ.Valid() {
		return model.Category{}, fmt.Errorf("invalid type %q", record[colType])
	}
	group := model.DREGroup(strings.TrimSpace(record[colDREGroup]))
	if group == "" {
		group = model.DRENone
	}
	if !group.Valid() {
		return model.Category{}, fmt.Errorf("invalid dre_group %q", record[colDREGroup])
	}
	return model.Category{
		Code:     code,
		Name:     strings.TrimSpace(record[colName]),
		Type:     typ,
		DREGroup: group,
		Active:   true,
	}, nil
}
