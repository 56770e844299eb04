package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bsm/gridkit/cellstore"
	"github.com/bsm/gridkit/featureio"
	"github.com/bsm/gridkit/grid"
	"github.com/bsm/gridkit/index"
	"github.com/bsm/gridkit/index/lsst"
	"github.com/spf13/cobra"
)

var errNoStore = errors.New("gridkit: no store given")

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print stored fragments as GeoJSON",
	Long: `query reads the fragments of a window of cells from a cellstore or an
sst file and prints them as a GeoJSON FeatureCollection. Files ending in .sst
are read as sst, all others as cellstore.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseQuery()
		if err != nil {
			return err
		}

		var out *featureio.GeoJSONWriter
		if path := Cfg.GetString("output"); path == "-" {
			out = featureio.NewGeoJSONWriter(cmd.OutOrStdout())
		} else if out, err = featureio.CreateGeoJSON(path); err != nil {
			return err
		}

		err = q.run(out)
		if e := out.Close(); e != nil && err == nil {
			err = e
		}
		return err
	},
}

// query selects a window of cells, bounds are inclusive.
type query struct {
	store      string
	numCols    int
	row0, row1 int
	col0, col1 int
}

func parseQuery() (*query, error) {
	q := &query{
		store:   Cfg.GetString("store"),
		numCols: Cfg.GetInt("cols"),
	}
	if q.store == "" {
		return nil, errNoStore
	}
	if q.numCols < 1 {
		return nil, fmt.Errorf("gridkit: invalid number of columns %d", q.numCols)
	}

	var err error
	if q.row0, q.row1, err = parseRange(Cfg.GetString("row-range")); err != nil {
		return nil, fmt.Errorf("gridkit: invalid row range: %w", err)
	}

	q.col0, q.col1 = 0, q.numCols-1
	if s := Cfg.GetString("col-range"); s != "" {
		if q.col0, q.col1, err = parseRange(s); err != nil {
			return nil, fmt.Errorf("gridkit: invalid column range: %w", err)
		}
		if q.col1 >= q.numCols {
			return nil, fmt.Errorf("gridkit: invalid column range: %d exceeds the number of columns", q.col1)
		}
	}
	return q, nil
}

// parseRange parses "first:last" and a single "n".
func parseRange(s string) (int, int, error) {
	first, last, ok := strings.Cut(s, ":")
	if !ok {
		last = first
	}

	lo, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, err
	}
	hi, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		return 0, 0, err
	}
	if lo < 0 || hi < lo {
		return 0, 0, fmt.Errorf("bad bounds %d:%d", lo, hi)
	}
	return lo, hi, nil
}

func (q *query) run(out *featureio.GeoJSONWriter) error {
	if strings.HasSuffix(q.store, ".sst") {
		return q.runSST(out)
	}
	return q.runCellStore(out)
}

func (q *query) runCellStore(out *featureio.GeoJSONWriter) error {
	f, err := os.Open(q.store)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	r, err := cellstore.NewReader(f, fi.Size())
	if err != nil {
		return err
	}

	for row := q.row0; row <= q.row1; row++ {
		min := uint64(row*q.numCols + q.col0)
		max := uint64(row*q.numCols + q.col1)
		if err := q.scan(r.Range(min, max), out); err != nil {
			return err
		}
	}
	return nil
}

func (q *query) runSST(out *featureio.GeoJSONWriter) error {
	store, err := lsst.OpenFile(q.store, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	r := index.NewReader(store)
	for row := q.row0; row <= q.row1; row++ {
		for col := q.col0; col <= q.col1; col++ {
			cell := uint64(row*q.numCols + col)
			data, err := r.Get(cell)
			if err != nil {
				return err
			}
			if err := emit(cell, data, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (q *query) scan(it *cellstore.RangeIterator, out *featureio.GeoJSONWriter) error {
	defer it.Close()

	for it.Next() {
		if err := emit(it.Key(), it.Value(), out); err != nil {
			return err
		}
	}
	return it.Err()
}

// emit writes the fragments stored for a cell.
func emit(cell uint64, data []byte, out *featureio.GeoJSONWriter) error {
	frags, err := grid.DecodeFragments(data)
	if err != nil {
		return fmt.Errorf("gridkit: cell %d: %w", cell, err)
	}
	for i := range frags {
		if err := out.Write(&frags[i]); err != nil {
			return err
		}
	}
	return nil
}
