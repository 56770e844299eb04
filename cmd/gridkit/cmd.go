package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the current version of gridkit.
const Version = "0.3.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level sets the minimum level of log messages, one of
              debug, info, warn or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "input",
			usage: `
              input is the path of the feature file. GeoJSON (.geojson, .json),
              shapefiles (.shp) and OpenStreetMap XML (.osm, .osm.gz) are
              supported.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path of the output file. "-" writes GeoJSON and tab
              outputs to standard output.`,
			shorthand:  "o",
			defaultVal: "-",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags(), queryCmd.Flags()},
		},
		{
			name: "format",
			usage: `
              format is the output format, one of geojson, tab, cellstore
              or sst.`,
			shorthand:  "f",
			defaultVal: "geojson",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "origin-x",
			usage: `
              origin-x is the X coordinate of the outer corner of cell (0,0).`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "origin-y",
			usage: `
              origin-y is the Y coordinate of the outer corner of cell (0,0).`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "cell-width",
			usage: `
              cell-width is the cell size along the X axis.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "cell-height",
			usage: `
              cell-height is the cell size along the Y axis. Use negative
              values for north-up rasters.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "rows",
			usage: `
              rows is the number of grid rows.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "cols",
			usage: `
              cols is the number of grid columns.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags(), queryCmd.Flags()},
		},
		{
			name: "id-field",
			usage: `
              id-field names the attribute holding integer feature IDs. By
              default, native feature IDs or positions are used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers is the number of concurrent slicing workers. Zero uses
              one worker per CPU.`,
			shorthand:  "w",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "progress",
			usage: `
              progress is the interval between progress reports. Negative
              values disable reports.`,
			defaultVal: 3 * time.Second,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "tmp-dir",
			usage: `
              tmp-dir holds temporary sort buffers of cellstore and sst
              outputs.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "compression",
			usage: `
              compression is the block compression of cellstore outputs,
              snappy or none.`,
			defaultVal: "snappy",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "store",
			usage: `
              store is the path of a cellstore or sst file written by slice.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{queryCmd.Flags()},
		},
		{
			name: "row-range",
			usage: `
              row-range is the inclusive range of rows to query, as first:last.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{queryCmd.Flags()},
		},
		{
			name: "col-range",
			usage: `
              col-range is the inclusive range of columns to query, as
              first:last. By default, all columns are queried.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{queryCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Configuration can be set through GRIDKIT_<NAME> environment variables.
	Cfg.SetEnvPrefix("GRIDKIT")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 {
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case time.Duration:
				set.DurationP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(sliceCmd)
	Root.AddCommand(queryCmd)
}

// setConfig reads in the configuration file, if there is one, and sets up
// logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gridkit: problem reading configuration file: %v", err)
		}
	}

	level, err := logrus.ParseLevel(Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("gridkit: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gridkit",
	Short: "Decompose polygons into grid cells.",
	Long: `gridkit clips polygon features against a uniform raster grid and emits
one fragment per covered cell.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GRIDKIT_VAR' where 'VAR' is
the upper-cased name of the option, with dashes replaced by underscores.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of gridkit.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("gridkit v%s\n", Version)
	},
	DisableAutoGenTag: true,
}
