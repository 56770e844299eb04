package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"

	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/bsm/gridkit/cellstore"
	"github.com/bsm/gridkit/grid"
	"github.com/bsm/gridkit/index"
	"github.com/bsm/gridkit/index/lsst"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

var _ = Describe("Sinks", func() {
	var dir, input string
	var log *logrus.Logger

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		input = filepath.Join(dir, "input.geojson")
		Expect(os.WriteFile(input, []byte(testInput), 0600)).To(Succeed())

		log = logrus.New()
		log.SetOutput(GinkgoWriter)
	})

	run := func(format Format) string {
		output := filepath.Join(dir, "output."+string(format))
		stats, err := Run(context.Background(), &Config{
			Grid:    testGrid,
			Input:   input,
			IDField: "code",
			Output:  output,
			Format:  format,
			TempDir: dir,
		}, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Features).To(Equal(int64(2)))
		Expect(stats.Fragments).To(Equal(int64(5)))
		return output
	}

	It("should write GeoJSON", func() {
		data, err := os.ReadFile(run(FormatGeoJSON))
		Expect(err).NotTo(HaveOccurred())

		fc, err := geojson.UnmarshalFeatureCollection(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(fc.Features).To(HaveLen(5))

		var indices []float64
		for _, f := range fc.Features {
			indices = append(indices, f.Properties["grid_index"].(float64))
		}
		Expect(indices).To(ConsistOf(0.0, 0.0, 1.0, 4.0, 5.0))
	})

	It("should write tab files", func() {
		r, err := index.OpenTab(run(FormatTab))
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		var n int
		for {
			_, vals, err := r.Read()
			if err == io.EOF {
				break
			}
			Expect(err).NotTo(HaveOccurred())
			for _, v := range vals {
				var frag grid.Fragment
				Expect(frag.UnmarshalBinary(v)).To(Succeed())
				Expect(frag.FeatureID).To(BeElementOf(int64(21), int64(22)))
				n++
			}
		}
		Expect(n).To(Equal(5))
	})

	It("should write cellstores", func() {
		f, err := os.Open(run(FormatCellStore))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		fi, err := f.Stat()
		Expect(err).NotTo(HaveOccurred())

		r, err := cellstore.NewReader(f, fi.Size())
		Expect(err).NotTo(HaveOccurred())

		var keys []uint64
		it := r.Iterator()
		for it.Next() {
			keys = append(keys, it.Key())
		}
		Expect(it.Err()).NotTo(HaveOccurred())
		Expect(it.Close()).To(Succeed())
		Expect(keys).To(Equal([]uint64{0, 1, 4, 5}))

		data, err := r.Get(0)
		Expect(err).NotTo(HaveOccurred())
		frags, err := grid.DecodeFragments(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(frags).To(HaveLen(2))
	})

	It("should write SSTs", func() {
		store, err := lsst.OpenFile(run(FormatSST), nil)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		data, err := index.NewReader(store).Get(5)
		Expect(err).NotTo(HaveOccurred())
		frags, err := grid.DecodeFragments(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(frags).To(HaveLen(1))
		Expect(frags[0].FeatureID).To(Equal(int64(21)))
		Expect(frags[0].Cell).To(Equal(grid.Cell{Row: 1, Col: 1}))
	})

	It("should reject unknown formats", func() {
		_, err := Run(context.Background(), &Config{
			Grid:   testGrid,
			Input:  input,
			Output: filepath.Join(dir, "output.csv"),
			Format: "csv",
		}, log)
		Expect(err).To(MatchError(`pipeline: unknown output format "csv"`))
	})
})

const testInput = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"code": 21},
      "geometry": {"type": "Polygon", "coordinates": [
        [[0.5,0.5],[1.5,0.5],[1.5,1.5],[0.5,1.5],[0.5,0.5]]
      ]}
    },
    {
      "type": "Feature",
      "properties": {"code": 22},
      "geometry": {"type": "Polygon", "coordinates": [
        [[0.1,0.1],[0.4,0.1],[0.4,0.4],[0.1,0.1]]
      ]}
    }
  ]
}`
