package vcfconv_api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"
)

// runWithFlags builds a throwaway cli app mirroring the real flag set and
// hands the parsed context to the callback.
func runWithFlags(t *testing.T, args []string, action func(Cctx *cli.Context) error) {
	t.Helper()
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "gensample", Aliases: []string{"g"}},
			&cli.StringFlag{Name: "tsv2vcf"},
			&cli.StringFlag{Name: "include", Aliases: []string{"i"}},
			&cli.StringFlag{Name: "exclude", Aliases: []string{"e"}},
			&cli.StringFlag{Name: "regions", Aliases: []string{"r"}},
			&cli.StringFlag{Name: "regions-file", Aliases: []string{"R"}},
			&cli.StringFlag{Name: "targets", Aliases: []string{"t"}},
			&cli.StringFlag{Name: "targets-file", Aliases: []string{"T"}},
			&cli.StringFlag{Name: "samples", Aliases: []string{"s"}},
			&cli.StringFlag{Name: "samples-file", Aliases: []string{"S"}},
			&cli.StringFlag{Name: "tag"},
			&cli.StringFlag{Name: "fasta-ref", Aliases: []string{"f"}},
			&cli.StringFlag{Name: "columns", Aliases: []string{"c"}},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}},
			&cli.StringFlag{Name: "output-type", Aliases: []string{"O"}},
			&cli.StringFlag{Name: "config"},
		},
		Action: action,
	}
	require.NoError(t, app.Run(append([]string{"vcfconv"}, args...)))
}

func TestReadConfigDefaults(t *testing.T) {
	runWithFlags(t, nil, func(Cctx *cli.Context) error {
		config, err := ReadConfig(Cctx)
		require.NoError(t, err)
		assert.Equal(t, "GT", config.Tag)
		assert.Equal(t, "ID,CHROM,POS,AA", config.Columns)
		assert.Equal(t, "v", config.OutputType)
		return nil
	})
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "tag: PL\noutput-type: z\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	runWithFlags(t, []string{"--config", path}, func(Cctx *cli.Context) error {
		config, err := ReadConfig(Cctx)
		require.NoError(t, err)
		assert.Equal(t, "PL", config.Tag)
		assert.Equal(t, "z", config.OutputType)
		// unset fields still get their defaults
		assert.Equal(t, "ID,CHROM,POS,AA", config.Columns)
		return nil
	})
}

func TestResolveOptionsFlagsWinOverConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tag: PL\n"), 0o644))

	args := []string{"--config", path, "--tag", "GT", "-g", "out", "-e", "POS<5", "in.vcf"}
	runWithFlags(t, args, func(Cctx *cli.Context) error {
		config, err := ReadConfig(Cctx)
		require.NoError(t, err)
		opts, err := resolveOptions(Cctx, config)
		require.NoError(t, err)

		assert.Equal(t, "GT", opts.tag)
		assert.Equal(t, "out", opts.genOut)
		assert.Equal(t, "in.vcf", opts.infname)
		assert.Equal(t, "POS<5", opts.filterStr)
		assert.Equal(t, fltExclude, opts.filterLogic)
		return nil
	})
}

func TestResolveOptionsRejectsBadTagAndType(t *testing.T) {
	runWithFlags(t, []string{"--tag", "GP", "-g", "out"}, func(Cctx *cli.Context) error {
		config, err := ReadConfig(Cctx)
		require.NoError(t, err)
		_, err = resolveOptions(Cctx, config)
		assert.Error(t, err)
		return nil
	})

	runWithFlags(t, []string{"-O", "x", "--tsv2vcf", "in.tsv"}, func(Cctx *cli.Context) error {
		config, err := ReadConfig(Cctx)
		require.NoError(t, err)
		_, err = resolveOptions(Cctx, config)
		assert.Error(t, err)
		return nil
	})
}
