package cellstore

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
)

var _ = Describe("Reader", func() {
	const numSeeds = 500
	var subject *Reader

	keys := func(it interface {
		Next() bool
		Key() uint64
		Value() []byte
		Err() error
	}) ([]uint64, error) {
		var res []uint64
		for it.Next() {
			if !bytes.Equal(it.Value(), seedValue(it.Key())) {
				return nil, errBadBlock
			}
			res = append(res, it.Key())
		}
		return res, it.Err()
	}

	series := func(min, max uint64) []uint64 {
		var res []uint64
		for k := min; k <= max; k += 3 {
			res = append(res, k)
		}
		return res
	}

	BeforeEach(func() {
		subject = seedReader(numSeeds, SnappyCompression)
	})

	It("should init", func() {
		Expect(subject.NumBlocks()).To(BeNumerically(">", 10))
		Expect(subject.index[0].Offset).To(Equal(int64(0)))
		Expect(subject.index[subject.NumBlocks()-1].MaxKey).To(Equal(uint64(3 * (numSeeds - 1))))
	})

	It("should reject bad input", func() {
		_, err := NewReader(bytes.NewReader([]byte("short")), 5)
		Expect(err).To(MatchError(errBadMagic))

		data := bytes.Repeat([]byte{1}, 32)
		_, err = NewReader(bytes.NewReader(data), int64(len(data)))
		Expect(err).To(MatchError(errBadMagic))
	})

	It("should iterate", func() {
		it := subject.Iterator()
		defer it.Close()
		Expect(keys(it)).To(Equal(series(0, 3*(numSeeds-1))))

		it = seedReader(numSeeds, NoCompression).Iterator()
		defer it.Close()
		Expect(keys(it)).To(Equal(series(0, 3*(numSeeds-1))))
	})

	It("should seek", func() {
		it := subject.Iterator()
		defer it.Close()

		Expect(it.Seek(0)).To(BeTrue())
		Expect(it.Key()).To(Equal(uint64(0)))
		Expect(it.Next()).To(BeTrue())
		Expect(it.Key()).To(Equal(uint64(3)))

		Expect(it.Seek(4)).To(BeTrue())
		Expect(it.Key()).To(Equal(uint64(6)))
		Expect(it.Value()).To(Equal(seedValue(6)))

		Expect(it.Seek(900)).To(BeTrue())
		Expect(it.Key()).To(Equal(uint64(900)))
		Expect(it.Next()).To(BeTrue())
		Expect(it.Key()).To(Equal(uint64(903)))

		Expect(it.Seek(10)).To(BeTrue())
		Expect(it.Key()).To(Equal(uint64(12)))

		Expect(it.Seek(3 * (numSeeds - 1))).To(BeTrue())
		Expect(it.Next()).To(BeFalse())

		Expect(it.Seek(3 * numSeeds)).To(BeFalse())
		Expect(it.Err()).NotTo(HaveOccurred())
	})

	It("should get", func() {
		Expect(subject.Get(0)).To(Equal(seedValue(0)))
		Expect(subject.Get(300)).To(Equal(seedValue(300)))
		Expect(subject.Get(3 * (numSeeds - 1))).To(Equal(seedValue(3 * (numSeeds - 1))))

		_, err := subject.Get(301)
		Expect(err).To(MatchError(ErrNotFound))
		_, err = subject.Get(3 * numSeeds)
		Expect(err).To(MatchError(ErrNotFound))
	})

	It("should iterate ranges", func() {
		rng := func(min, max uint64) []uint64 {
			it := subject.Range(min, max)
			defer it.Close()

			res, err := keys(it)
			Expect(err).NotTo(HaveOccurred())
			return res
		}

		Expect(rng(10, 30)).To(Equal(series(12, 30)))
		Expect(rng(0, 0)).To(Equal([]uint64{0}))
		Expect(rng(1, 2)).To(BeEmpty())
		Expect(rng(30, 10)).To(BeEmpty())
		Expect(rng(3*numSeeds, 5*numSeeds)).To(BeEmpty())
		Expect(rng(0, 1<<63)).To(HaveLen(numSeeds))
		Expect(rng(200, 1200)).To(Equal(series(201, 1200)))
	})

	It("should query empty readers", func() {
		empty := seedReader(0, SnappyCompression)
		Expect(empty.NumBlocks()).To(Equal(0))

		it := empty.Iterator()
		defer it.Close()
		Expect(it.Next()).To(BeFalse())
		Expect(it.Seek(0)).To(BeFalse())

		_, err := empty.Get(0)
		Expect(err).To(MatchError(ErrNotFound))
	})

	It("should read from files", func() {
		fname := filepath.Join(GinkgoT().TempDir(), "store.cs")
		f, err := os.Create(fname)
		Expect(err).NotTo(HaveOccurred())

		w := NewWriter(f, nil)
		Expect(w.Append(7, []byte("seven"))).To(Succeed())
		Expect(w.Append(9, []byte("nine"))).To(Succeed())
		Expect(w.Close()).To(Succeed())
		Expect(f.Close()).To(Succeed())

		f, err = os.Open(fname)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		fi, err := f.Stat()
		Expect(err).NotTo(HaveOccurred())

		r, err := NewReader(f, fi.Size())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Get(9)).To(Equal([]byte("nine")))
	})
})
