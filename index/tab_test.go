package index

import (
	"io"
	"os"
	"path/filepath"

	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
)

var _ = Describe("Tab", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(fname string, create bool) {
		var w *TabWriter
		var err error
		if create {
			w, err = CreateTab(fname)
		} else {
			w, err = AppendTab(fname)
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Put(0, []byte("DATA1"))).To(Succeed())
		Expect(w.Put(0, []byte("DATA2"))).To(Succeed())
		Expect(w.Put(2, []byte("DATA3"))).To(Succeed())
		Expect(w.Put(12, []byte("DATA4"))).To(Succeed())
		Expect(w.Put(12, []byte{})).To(Succeed())
		Expect(w.Close()).To(Succeed())
	}

	runTest := func(fname string) {
		write(fname, true)

		r, err := OpenTab(fname)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		key, vals, err := r.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(Equal(uint64(0)))
		Expect(vals).To(Equal([][]byte{
			[]byte("DATA1"),
			[]byte("DATA2"),
		}))

		key, vals, err = r.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(Equal(uint64(2)))
		Expect(vals).To(Equal([][]byte{
			[]byte("DATA3"),
		}))

		key, vals, err = r.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(Equal(uint64(12)))
		Expect(vals).To(Equal([][]byte{
			[]byte("DATA4"),
			{},
		}))

		_, _, err = r.Read()
		Expect(err).To(MatchError(io.EOF))
	}

	It("should write/read plain data", func() {
		fname := filepath.Join(dir, "data.tab")
		runTest(fname)

		data, err := os.ReadFile(fname)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("0\tREFUQTE=\n0\tREFUQTI=\n2\tREFUQTM=\n12\tREFUQTQ=\n12\t\n"))
	})

	It("should write/read compressed data", func() {
		runTest(filepath.Join(dir, "data.tab.gz"))
	})

	It("should truncate or append", func() {
		fname := filepath.Join(dir, "data.tab")
		write(fname, true)
		write(fname, false)

		data, err := os.ReadFile(fname)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(2 * 49))

		write(fname, true)
		data, err = os.ReadFile(fname)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(49))
	})

	It("should reject bad input", func() {
		fname := filepath.Join(dir, "bad.tab")
		Expect(os.WriteFile(fname, []byte("x\tREFUQTE=\n"), 0600)).To(Succeed())

		r, err := OpenTab(fname)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		_, _, err = r.Read()
		Expect(err).To(MatchError(`index: bad input "x\tREFUQTE="`))
	})
})
