package main

import (
	"github.com/bsm/gridkit/cellstore"
	"github.com/bsm/gridkit/grid"
	"github.com/bsm/gridkit/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sliceCmd = &cobra.Command{
	Use:   "slice",
	Short: "Slice features into grid fragments",
	Long: `slice reads polygon features from the input file, decomposes them into
the cells of the reference grid and writes one fragment per feature and cell.
Fragments outside of the grid are dropped.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sliceConfig()
		if err != nil {
			return err
		}

		_, err = pipeline.Run(cmd.Context(), cfg, logrus.StandardLogger())
		return err
	},
}

func sliceConfig() (*pipeline.Config, error) {
	format, err := pipeline.ParseFormat(Cfg.GetString("format"))
	if err != nil {
		return nil, err
	}

	compression, err := cellstore.ParseCompression(Cfg.GetString("compression"))
	if err != nil {
		return nil, err
	}

	return &pipeline.Config{
		Grid: grid.Grid{
			OriginX:    Cfg.GetFloat64("origin-x"),
			OriginY:    Cfg.GetFloat64("origin-y"),
			CellWidth:  Cfg.GetFloat64("cell-width"),
			CellHeight: Cfg.GetFloat64("cell-height"),
			NumRows:    Cfg.GetInt("rows"),
			NumCols:    Cfg.GetInt("cols"),
		},
		Input:       Cfg.GetString("input"),
		IDField:     Cfg.GetString("id-field"),
		Output:      Cfg.GetString("output"),
		Format:      format,
		Compression: compression,
		TempDir:     Cfg.GetString("tmp-dir"),
		Workers:     Cfg.GetInt("workers"),
		Progress:    Cfg.GetDuration("progress"),
	}, nil
}
