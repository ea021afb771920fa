package main

import (
	"log"
	"os"

	cli "github.com/urfave/cli/v2"

	"github.com/nvnieuwk/vcfconv/vcfconv_api"
)

func main() {
	app := &cli.App{
		Name:            "vcfconv",
		Usage:           "Convert between VCF and related flat genotype formats",
		HideHelpCommand: true,
		Version:         "0.1.0dev",
		ArgsUsage:       "[input VCF file, defaults to stdin]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "gensample",
				Aliases:  []string{"g"},
				Usage:    "Convert VCF to gen/sample format, takes <prefix> or <gen-file>,<sample-file>",
				Category: "Mode",
			},
			&cli.StringFlag{
				Name:     "tsv2vcf",
				Usage:    "Convert a TSV file of per-sample allele calls to VCF",
				Category: "Mode",
			},
			&cli.StringFlag{
				Name:     "include",
				Aliases:  []string{"i"},
				Usage:    "Select sites for which the expression is true",
				Category: "Site selection",
			},
			&cli.StringFlag{
				Name:     "exclude",
				Aliases:  []string{"e"},
				Usage:    "Exclude sites for which the expression is true",
				Category: "Site selection",
			},
			&cli.StringFlag{
				Name:     "regions",
				Aliases:  []string{"r"},
				Usage:    "Restrict to a comma-separated list of regions (chr or chr:beg-end)",
				Category: "Site selection",
			},
			&cli.StringFlag{
				Name:     "regions-file",
				Aliases:  []string{"R"},
				Usage:    "Restrict to regions listed in a file",
				Category: "Site selection",
			},
			&cli.StringFlag{
				Name:     "targets",
				Aliases:  []string{"t"},
				Usage:    "Similar to --regions but streams rather than index-jumps",
				Category: "Site selection",
			},
			&cli.StringFlag{
				Name:     "targets-file",
				Aliases:  []string{"T"},
				Usage:    "Similar to --regions-file but streams rather than index-jumps",
				Category: "Site selection",
			},
			&cli.StringFlag{
				Name:     "samples",
				Aliases:  []string{"s"},
				Usage:    "Comma-separated list of samples to include (prefix with ^ to exclude)",
				Category: "Sample selection",
			},
			&cli.StringFlag{
				Name:     "samples-file",
				Aliases:  []string{"S"},
				Usage:    "File with one sample name per line",
				Category: "Sample selection",
			},
			&cli.StringFlag{
				Name:     "tag",
				Usage:    "FORMAT tag to take values for the .gen file: GT or PL",
				Category: "gen/sample options",
			},
			&cli.StringFlag{
				Name:     "fasta-ref",
				Aliases:  []string{"f"},
				Usage:    "Reference sequence in FASTA format (required for --tsv2vcf)",
				Category: "TSV options",
			},
			&cli.StringFlag{
				Name:     "columns",
				Aliases:  []string{"c"},
				Usage:    "Columns of the input TSV file",
				Category: "TSV options",
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Write output to a file instead of standard output",
				Category: "TSV options",
			},
			&cli.StringFlag{
				Name:     "output-type",
				Aliases:  []string{"O"},
				Usage:    "'v' plain VCF, 'z'/'b' bgzip-compressed VCF, 'u' plain VCF",
				Category: "TSV options",
			},
			&cli.StringFlag{
				Name:     "config",
				Usage:    "YAML file with default values for tag, columns and output-type",
				Category: "Optional",
			},
		},
		Action: func(Cctx *cli.Context) error {
			if Cctx.String("gensample") == "" && Cctx.String("tsv2vcf") == "" {
				cli.ShowAppHelp(Cctx)
				return cli.Exit("One of --gensample or --tsv2vcf is required", 1)
			}
			if Cctx.String("gensample") != "" && Cctx.String("tsv2vcf") != "" {
				return cli.Exit("--gensample and --tsv2vcf are mutually exclusive", 1)
			}
			if Cctx.String("include") != "" && Cctx.String("exclude") != "" {
				return cli.Exit("--include and --exclude cannot be combined", 1)
			}
			return vcfconv_api.Run(Cctx)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New(os.Stderr, "", 0).Fatal(err)
	}
}
