package vcfconv_api

import (
	"fmt"

	cli "github.com/urfave/cli/v2"
)

// Logic of the site filters: include or exclude sites which match them
const (
	fltNone = iota
	fltInclude
	fltExclude
)

// All settings of one conversion run, resolved from the command line and
// the optional config file
type options struct {
	infname  string
	genOut   string
	tsvIn    string
	outfname string

	filterStr   string
	filterLogic int

	regions       string
	regionsIsFile bool
	targets       string
	targetsIsFile bool

	sampleList    string
	samplesIsFile bool

	tag        string
	refFname   string
	columns    string
	outputType byte
}

// Run resolves the options of the selected conversion mode and executes it.
func Run(Cctx *cli.Context) error {
	config, err := ReadConfig(Cctx)
	if err != nil {
		return err
	}

	opts, err := resolveOptions(Cctx, config)
	if err != nil {
		return err
	}

	if opts.tsvIn != "" {
		return tsvToVCF(opts)
	}
	return vcfToGenSample(opts)
}

// Merge the command line flags with the config file defaults and validate
// everything that must be rejected before any input is touched.
func resolveOptions(Cctx *cli.Context, config *Config) (*options, error) {
	opts := &options{
		genOut:   Cctx.String("gensample"),
		tsvIn:    Cctx.String("tsv2vcf"),
		outfname: Cctx.String("output"),
		refFname: Cctx.String("fasta-ref"),
	}

	opts.infname = Cctx.Args().First()
	if opts.infname == "" {
		opts.infname = "-"
	}
	if opts.outfname == "" {
		opts.outfname = "-"
	}

	if expr := Cctx.String("include"); expr != "" {
		opts.filterStr = expr
		opts.filterLogic = fltInclude
	}
	if expr := Cctx.String("exclude"); expr != "" {
		opts.filterStr = expr
		opts.filterLogic = fltExclude
	}

	opts.regions = Cctx.String("regions")
	if file := Cctx.String("regions-file"); file != "" {
		opts.regions = file
		opts.regionsIsFile = true
	}
	opts.targets = Cctx.String("targets")
	if file := Cctx.String("targets-file"); file != "" {
		opts.targets = file
		opts.targetsIsFile = true
	}

	opts.sampleList = Cctx.String("samples")
	if file := Cctx.String("samples-file"); file != "" {
		opts.sampleList = file
		opts.samplesIsFile = true
	}

	opts.tag = config.Tag
	if tag := Cctx.String("tag"); tag != "" {
		opts.tag = tag
	}
	if opts.tag != "GT" && opts.tag != "PL" {
		return nil, fmt.Errorf("unsupported --tag %q, must be GT or PL", opts.tag)
	}

	opts.columns = config.Columns
	if columns := Cctx.String("columns"); columns != "" {
		opts.columns = columns
	}

	outputType := config.OutputType
	if ot := Cctx.String("output-type"); ot != "" {
		outputType = ot
	}
	switch outputType {
	case "b", "u", "z", "v":
		opts.outputType = outputType[0]
	default:
		return nil, fmt.Errorf("the output type %q is not recognised", outputType)
	}

	return opts, nil
}
