package vcfconv_api

import (
	"fmt"
	"strconv"

	"github.com/robertkrimen/otto"
)

// A compiled include/exclude site expression. The expression is a javascript
// snippet evaluated once per record with the record fields bound as
// variables: CHROM, POS, ID, REF, ALT (first alternate), QUAL, FILTER,
// N_ALT and the INFO object.
type siteFilter struct {
	vm     *otto.Otto
	script *otto.Script
	logic  int
}

// newSiteFilter compiles the expression once; a broken expression is a
// configuration error and is rejected before any record is read.
func newSiteFilter(expr string, logic int) (*siteFilter, error) {
	vm := otto.New()
	script, err := vm.Compile("", expr)
	if err != nil {
		return nil, fmt.Errorf("error parsing the filter expression %q: %w", expr, err)
	}
	return &siteFilter{vm: vm, script: script, logic: logic}, nil
}

// pass evaluates the expression on one record and combines the result with
// the include/exclude logic of the run.
func (f *siteFilter) pass(v *Variant) (bool, error) {
	f.vm.Set("CHROM", v.Chromosome)
	f.vm.Set("POS", v.Pos)
	f.vm.Set("ID", v.Id)
	f.vm.Set("REF", v.Ref)
	f.vm.Set("ALT", v.FirstAlt())
	f.vm.Set("FILTER", v.Filter)
	f.vm.Set("N_ALT", v.NAllele()-1)

	if qual, err := strconv.ParseFloat(v.Qual, 64); err == nil {
		f.vm.Set("QUAL", qual)
	} else {
		f.vm.Set("QUAL", otto.UndefinedValue())
	}

	info := map[string]interface{}{}
	for field, value := range v.Info {
		if value == "" {
			info[field] = true
			continue
		}
		if number, err := strconv.ParseFloat(value, 64); err == nil {
			info[field] = number
		} else {
			info[field] = value
		}
	}
	f.vm.Set("INFO", info)

	value, err := f.vm.Run(f.script)
	if err != nil {
		return false, fmt.Errorf("error evaluating the filter expression: %w", err)
	}
	match, err := value.ToBoolean()
	if err != nil {
		return false, fmt.Errorf("the filter expression is not a boolean: %w", err)
	}

	if f.logic == fltExclude {
		return !match, nil
	}
	return match, nil
}
