package vcfconv_api

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A compiled line template. Rendering walks the ops in order and appends to
// the output buffer; an op that spans all samples (like %_GT_TO_PROB3)
// renders one block per sample in header order.
type lineFormatter struct {
	ops []func(buf *bytes.Buffer, v *Variant) error
}

// Tag names recognized by the formatter, longest first so that prefix
// matching picks %FIRST_ALT over %F and %_GT_TO_PROB3 over %_GT.
var formatTags = []string{
	"_CHROM_POS_ID",
	"_GT_TO_PROB3",
	"_PL_TO_PROB3",
	"FIRST_ALT",
	"CHROM",
	"QUAL",
	"POS",
	"REF",
	"ALT",
	"ID",
}

// newLineFormatter compiles a format string of literal text, %TAG tokens and
// backslash escapes into a renderer.
func newLineFormatter(format string) (*lineFormatter, error) {
	formatter := &lineFormatter{}
	literal := []byte{}

	flushLiteral := func() {
		if len(literal) == 0 {
			return
		}
		text := string(literal)
		literal = []byte{}
		formatter.ops = append(formatter.ops, func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(text)
			return nil
		})
	}

	for i := 0; i < len(format); i++ {
		switch format[i] {
		case '\\':
			if i+1 < len(format) {
				i++
				switch format[i] {
				case 'n':
					literal = append(literal, '\n')
				case 't':
					literal = append(literal, '\t')
				default:
					literal = append(literal, format[i])
				}
			}
		case '%':
			tag := matchTag(format[i+1:])
			if tag == "" {
				return nil, fmt.Errorf("unknown tag at %q", format[i:])
			}
			i += len(tag)
			flushLiteral()
			op, err := tagOp(tag)
			if err != nil {
				return nil, err
			}
			formatter.ops = append(formatter.ops, op)
		default:
			literal = append(literal, format[i])
		}
	}
	flushLiteral()

	return formatter, nil
}

func matchTag(rest string) string {
	for _, tag := range formatTags {
		if strings.HasPrefix(rest, tag) {
			return tag
		}
	}
	return ""
}

func tagOp(tag string) (func(buf *bytes.Buffer, v *Variant) error, error) {
	switch tag {
	case "CHROM":
		return func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(v.Chromosome)
			return nil
		}, nil
	case "POS":
		return func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(strconv.FormatInt(v.Pos, 10))
			return nil
		}, nil
	case "ID":
		return func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(v.Id)
			return nil
		}, nil
	case "REF":
		return func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(v.Ref)
			return nil
		}, nil
	case "ALT":
		return func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(v.Alt)
			return nil
		}, nil
	case "FIRST_ALT":
		return func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(v.FirstAlt())
			return nil
		}, nil
	case "QUAL":
		return func(buf *bytes.Buffer, v *Variant) error {
			buf.WriteString(v.Qual)
			return nil
		}, nil
	case "_CHROM_POS_ID":
		return renderChromPosId, nil
	case "_GT_TO_PROB3":
		return renderGtToProb3, nil
	case "_PL_TO_PROB3":
		return renderPlToProb3, nil
	}
	return nil, fmt.Errorf("unknown tag %%%s", tag)
}

// render formats one record into the buffer. The buffer is reset first so
// the caller can reuse it across records.
func (f *lineFormatter) render(v *Variant, buf *bytes.Buffer) error {
	buf.Reset()
	for _, op := range f.ops {
		if err := op(buf, v); err != nil {
			return err
		}
	}
	return nil
}

// The record ID when present, chrom:pos otherwise.
func renderChromPosId(buf *bytes.Buffer, v *Variant) error {
	if v.Id != "" && v.Id != "." {
		buf.WriteString(v.Id)
		return nil
	}
	fmt.Fprintf(buf, "%s:%d", v.Chromosome, v.Pos)
	return nil
}

// One genotype-derived probability triple per sample: the slot matching the
// count of non-reference alleles gets probability 1. Missing genotypes
// render as "0 0 0", haploid calls count as homozygous.
func renderGtToProb3(buf *bytes.Buffer, v *Variant) error {
	for _, sample := range v.Header.Samples {
		gt := ""
		if format, ok := v.Format[sample]; ok {
			if content, ok := format.Content["GT"]; ok && len(content) > 0 {
				gt = content[0]
			}
		}

		dose, ok := gtDosage(gt)
		if !ok {
			buf.WriteString(" 0 0 0")
			continue
		}
		switch dose {
		case 0:
			buf.WriteString(" 1 0 0")
		case 1:
			buf.WriteString(" 0 1 0")
		default:
			buf.WriteString(" 0 0 1")
		}
	}
	return nil
}

// gtDosage counts the non-reference alleles of an unphased or phased GT
// value. The second return is false for missing or unparseable genotypes.
func gtDosage(gt string) (int, bool) {
	if gt == "" || gt == "." {
		return 0, false
	}

	alleles := strings.FieldsFunc(gt, func(r rune) bool {
		return r == '/' || r == '|'
	})
	if len(alleles) == 0 {
		return 0, false
	}

	dose := 0
	for _, allele := range alleles {
		if allele == "." {
			return 0, false
		}
		code, err := strconv.Atoi(allele)
		if err != nil {
			return 0, false
		}
		if code > 0 {
			dose++
		}
	}
	if len(alleles) == 1 {
		// haploid: ref or hom-alt
		dose *= 2
	}
	if dose > 2 {
		dose = 2
	}
	return dose, true
}

// One likelihood-derived probability triple per sample: the first three PL
// values converted from the Phred scale and normalized to sum one. Missing
// or short PL vectors render as "0 0 0".
func renderPlToProb3(buf *bytes.Buffer, v *Variant) error {
	for _, sample := range v.Header.Samples {
		var values []string
		if format, ok := v.Format[sample]; ok {
			values = format.Content["PL"]
		}
		if len(values) < 3 {
			buf.WriteString(" 0 0 0")
			continue
		}

		probs := [3]float64{}
		sum := 0.0
		ok := true
		for i := 0; i < 3; i++ {
			pl, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				ok = false
				break
			}
			probs[i] = math.Pow(10, -pl/10)
			sum += probs[i]
		}
		if !ok || sum == 0 {
			buf.WriteString(" 0 0 0")
			continue
		}
		fmt.Fprintf(buf, " %g %g %g", probs[0]/sum, probs[1]/sum, probs[2]/sum)
	}
	return nil
}
