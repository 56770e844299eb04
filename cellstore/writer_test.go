package cellstore

import (
	"bytes"
	"math/rand"

	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
)

var _ = Describe("Writer", func() {
	var buf *bytes.Buffer
	var subject *Writer

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		subject = NewWriter(buf, nil)
	})

	AfterEach(func() {
		_ = subject.Close()
	})

	It("should write empty", func() {
		Expect(subject.Close()).To(Succeed())
		Expect(buf.Len()).To(Equal(footerLen))
		Expect(buf.Bytes()[8:]).To(Equal(magic))
	})

	It("should prevent out-of-order writes", func() {
		Expect(subject.Append(5, []byte("testdata"))).To(Succeed())
		Expect(subject.Append(5, []byte("testdata"))).To(MatchError(`cellstore: attempted an out-of-order append, 5 must be > 5`))
		Expect(subject.Append(3, []byte("testdata"))).To(MatchError(`cellstore: attempted an out-of-order append, 3 must be > 5`))
		Expect(subject.Append(7, []byte("testdata"))).To(Succeed())
	})

	It("should accept zero keys", func() {
		Expect(subject.Append(0, []byte("testdata"))).To(Succeed())
		Expect(subject.Append(0, []byte("testdata"))).To(MatchError(`cellstore: attempted an out-of-order append, 0 must be > 0`))
		Expect(subject.Append(1, nil)).To(Succeed())
	})

	It("should reject writes once closed", func() {
		Expect(subject.Close()).To(Succeed())
		Expect(subject.Append(1, []byte("testdata"))).To(MatchError(errClosed))
		Expect(subject.Close()).To(MatchError(errClosed))
	})

	It("should flush blocks", func() {
		subject = NewWriter(buf, &Options{BlockSize: KiB, SectionSize: 4, Compression: NoCompression})
		val := bytes.Repeat([]byte("x"), 100)
		for i := 0; i < 100; i++ {
			Expect(subject.Append(uint64(i), val)).To(Succeed())
		}
		Expect(subject.Close()).To(Succeed())

		Expect(len(subject.index)).To(BeNumerically(">", 9))
		Expect(subject.index[0].Offset).To(Equal(int64(0)))
		for i := 1; i < len(subject.index); i++ {
			Expect(subject.index[i].MaxKey).To(BeNumerically(">", subject.index[i-1].MaxKey))
			Expect(subject.index[i].Offset).To(BeNumerically(">", subject.index[i-1].Offset))
		}
		Expect(subject.index[len(subject.index)-1].MaxKey).To(Equal(uint64(99)))
		Expect(buf.Len()).To(BeNumerically(">", 100*100))
	})

	It("should compress where beneficial", func() {
		plain := new(bytes.Buffer)
		w := NewWriter(plain, &Options{Compression: NoCompression})

		val := bytes.Repeat([]byte("testdata"), 16)
		for i := 0; i < 10000; i++ {
			Expect(subject.Append(uint64(i), val)).To(Succeed())
			Expect(w.Append(uint64(i), val)).To(Succeed())
		}
		Expect(subject.Close()).To(Succeed())
		Expect(w.Close()).To(Succeed())
		Expect(buf.Len()).To(BeNumerically("<", plain.Len()/4))
	})

	It("should store incompressible data plain", func() {
		rnd := rand.New(rand.NewSource(1))
		val := make([]byte, 128)

		for i := 0; i < 1000; i++ {
			_, err := rnd.Read(val)
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.Append(uint64(i), val)).To(Succeed())
		}
		Expect(subject.Close()).To(Succeed())
		Expect(buf.Len()).To(BeNumerically(">", 1000*128))
	})
})
