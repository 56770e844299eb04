// Package pipeline slices the features of an input file into grid fragments
// and streams them into an output sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bsm/gridkit/cellstore"
	"github.com/bsm/gridkit/featureio"
	"github.com/bsm/gridkit/grid"
	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var errNoInput = errors.New("pipeline: no input")

// Config configures a run.
type Config struct {
	// Grid is the reference grid.
	Grid grid.Grid

	// Input is the path of the feature file, see featureio.Open.
	Input string
	// IDField names the attribute holding feature IDs.
	IDField string

	// Output is the path of the output file. "-" writes geojson and tab
	// outputs to stdout.
	Output string
	// Format of the output. Default: FormatGeoJSON.
	Format Format
	// Compression of cellstore outputs. Default: cellstore.SnappyCompression.
	Compression cellstore.Compression
	// TempDir holds the external sort buffers of sorted outputs.
	// Default: os.TempDir().
	TempDir string

	// Workers is the number of slicing goroutines. Default: runtime.NumCPU().
	Workers int
	// Progress is the interval between progress reports. Default: 3s.
	// Negative values disable progress reports.
	Progress time.Duration

	// Reader replaces Input when set. It is closed by Run.
	Reader featureio.Reader
	// Sink replaces Output and Format when set. It is closed by Run.
	Sink Sink
}

func (c *Config) norm() *Config {
	var cc Config
	if c != nil {
		cc = *c
	}
	if cc.Format == "" {
		cc.Format = FormatGeoJSON
	}
	if cc.Workers < 1 {
		cc.Workers = runtime.NumCPU()
	}
	if cc.Progress == 0 {
		cc.Progress = 3 * time.Second
	}
	return &cc
}

// Stats summarise a run.
type Stats struct {
	Features  int64 // features read
	Skipped   int64 // features outside of the grid extent
	Failed    int64 // features that could not be sliced
	Fragments int64 // fragments written
	Dropped   int64 // fragments outside of the grid
	Elapsed   time.Duration
}

// Run slices all input features and writes the fragments within the grid to
// the configured sink. Fragments are written from a single goroutine, in no
// particular order.
func Run(ctx context.Context, c *Config, log logrus.FieldLogger) (*Stats, error) {
	c = c.norm()

	slicer, err := grid.NewSlicer(c.Grid)
	if err != nil {
		if c.Reader != nil {
			_ = c.Reader.Close()
		}
		if c.Sink != nil {
			_ = c.Sink.Close()
		}
		return nil, err
	}

	reader := c.Reader
	if reader == nil {
		if c.Input == "" {
			if c.Sink != nil {
				_ = c.Sink.Close()
			}
			return nil, errNoInput
		}
		if reader, err = featureio.Open(c.Input, &featureio.Options{IDField: c.IDField}); err != nil {
			if c.Sink != nil {
				_ = c.Sink.Close()
			}
			return nil, err
		}
	}
	defer reader.Close()

	sink := c.Sink
	if sink == nil {
		if sink, err = openSink(c); err != nil {
			return nil, err
		}
	}

	r := &runner{
		Config: c,
		slicer: slicer,
		extent: c.Grid.Extent(),
		reader: reader,
		total:  int64(reader.Len()),
		sink:   sink,
		log:    log,
		start:  time.Now(),
	}

	err = r.run(ctx)
	if e := sink.Close(); e != nil && err == nil {
		err = e
	}

	stats := r.stats()
	if err != nil {
		return stats, err
	}

	log.WithFields(logrus.Fields{
		"features":  stats.Features,
		"skipped":   stats.Skipped,
		"failed":    stats.Failed,
		"fragments": stats.Fragments,
		"dropped":   stats.Dropped,
		"elapsed":   stats.Elapsed.Round(time.Millisecond).String(),
	}).Info("slicing complete")
	return stats, nil
}

// --------------------------------------------------------------------

type runner struct {
	*Config

	slicer *grid.Slicer
	extent r2.Rect
	reader featureio.Reader
	total  int64
	sink   Sink
	log    logrus.FieldLogger
	start  time.Time

	features, processed, skipped, failed atomic.Int64
	fragments, dropped                   atomic.Int64
}

func (r *runner) run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	if r.Progress > 0 {
		go r.report(done)
	}

	g, ctx := errgroup.WithContext(ctx)
	feats := make(chan *featureio.Feature, r.Workers)
	frags := make(chan []grid.Fragment, r.Workers)

	g.Go(func() error {
		defer close(feats)
		return r.read(ctx, feats)
	})

	var wg sync.WaitGroup
	for i := 0; i < r.Workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return r.work(ctx, feats, frags)
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(frags)
		return nil
	})

	g.Go(func() error {
		return r.write(frags)
	})

	return g.Wait()
}

func (r *runner) read(ctx context.Context, feats chan<- *featureio.Feature) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := r.reader.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		r.features.Add(1)

		if !r.overlaps(f.Geom) {
			r.skipped.Add(1)
			r.processed.Add(1)
			continue
		}

		select {
		case feats <- f:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *runner) work(ctx context.Context, feats <-chan *featureio.Feature, frags chan<- []grid.Fragment) error {
	for f := range feats {
		res, err := r.slice(f)
		r.processed.Add(1)
		if err != nil {
			r.failed.Add(1)
			r.log.WithFields(logrus.Fields{
				"fid":   f.ID,
				"error": err.Error(),
			}).Error("unable to slice feature")
			continue
		}

		select {
		case frags <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}

func (r *runner) write(frags <-chan []grid.Fragment) error {
	for res := range frags {
		for i := range res {
			if res[i].Index < 0 {
				r.dropped.Add(1)
				continue
			}
			if err := r.sink.Write(&res[i]); err != nil {
				return err
			}
			r.fragments.Add(1)
		}
	}
	return nil
}

func (r *runner) slice(f *featureio.Feature) (res []grid.Fragment, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("pipeline: slicing feature #%d: %v", f.ID, v)
		}
	}()
	return r.slicer.Slice(f.ID, f.Geom), nil
}

// overlaps reports whether the bounds of g intersect the grid extent.
func (r *runner) overlaps(g geom.Polygonal) bool {
	b := g.Bounds()
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
		return false
	}
	return r.extent.Intersects(r2.RectFromPoints(
		r2.Point{X: b.Min.X, Y: b.Min.Y},
		r2.Point{X: b.Max.X, Y: b.Max.Y},
	))
}

func (r *runner) report(done <-chan struct{}) {
	ticker := time.NewTicker(r.Progress)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		elapsed := time.Since(r.start)
		processed := r.processed.Load()
		fields := logrus.Fields{
			"processed": processed,
			"fragments": r.fragments.Load(),
			"rate":      fmt.Sprintf("%.1f/s", float64(processed)/elapsed.Seconds()),
		}
		if total := r.total; total > 0 {
			fields["total"] = total
			if processed > 0 && processed < total {
				eta := time.Duration(float64(elapsed) / float64(processed) * float64(total-processed))
				fields["eta"] = eta.Round(time.Second).String()
			}
		}
		r.log.WithFields(fields).Info("slicing")
	}
}

func (r *runner) stats() *Stats {
	return &Stats{
		Features:  r.features.Load(),
		Skipped:   r.skipped.Load(),
		Failed:    r.failed.Load(),
		Fragments: r.fragments.Load(),
		Dropped:   r.dropped.Load(),
		Elapsed:   time.Since(r.start),
	}
}
