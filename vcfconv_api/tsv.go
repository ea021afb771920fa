package vcfconv_api

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A column setter: reads the cell (and possibly further cells via next) at
// the parser's cursor and commits the value into the record.
type tsvSetter func(t *tsvParser, rec *Variant) error

// A column-driven parser for tabular input. The column specification names
// the meaning of each column; setters are registered per column name and
// invoked in column order for every row.
type tsvParser struct {
	columns []string
	setters []tsvSetter

	cells  []string
	cursor int
}

// errTooFewColumns flags a row that ran out of cells while a setter still
// needed input.
var errTooFewColumns = errors.New("too few columns")

// newTSVParser parses the -c column specification. Column names are
// canonicalized to upper case; "-" marks a column to ignore.
func newTSVParser(columnSpec string) *tsvParser {
	upper := cases.Upper(language.English)
	parser := &tsvParser{}
	for _, column := range strings.Split(columnSpec, ",") {
		parser.columns = append(parser.columns, upper.String(strings.TrimSpace(column)))
		parser.setters = append(parser.setters, nil)
	}
	return parser
}

// register installs the setter of one named column.
func (t *tsvParser) register(name string, setter tsvSetter) error {
	for i, column := range t.columns {
		if column == name {
			t.setters[i] = setter
			return nil
		}
	}
	return fmt.Errorf("expected %s column", name)
}

// next advances the cursor and returns the next cell of the current row.
func (t *tsvParser) next() (string, error) {
	t.cursor++
	if t.cursor >= len(t.cells) {
		return "", errTooFewColumns
	}
	return t.cells[t.cursor], nil
}

// cell returns the cell at the cursor.
func (t *tsvParser) cell() (string, error) {
	if t.cursor >= len(t.cells) {
		return "", errTooFewColumns
	}
	return t.cells[t.cursor], nil
}

// parse runs the registered setters over one row. Setters report benign
// rejections as errSiteRejected, which the caller counts as a skipped row.
func (t *tsvParser) parse(line string, rec *Variant) error {
	t.cells = strings.Split(line, "\t")
	t.cursor = 0

	for i, setter := range t.setters {
		if i > 0 {
			if _, err := t.next(); err != nil {
				// a row shorter than the column specification is
				// rejected, not fatal
				return fmt.Errorf("%w: %v", errSiteRejected, err)
			}
		}
		if setter == nil {
			continue
		}
		if err := setter(t, rec); err != nil {
			return err
		}
	}
	return nil
}
