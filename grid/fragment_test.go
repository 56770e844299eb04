package grid

import (
	"encoding/binary"

	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/wkb"
)

var _ = Describe("Fragment", func() {
	subject := Fragment{
		FeatureID: -42,
		Cell:      Cell{Row: 3, Col: -1},
		Index:     -1,
		Geom: geom.MultiPolygon{
			{ring(0, 0, 1, 0, 1, 1), ring(0.2, 0.2, 0.4, 0.6, 0.6, 0.2)},
			{ring(2, 2, 3, 2, 3, 3)},
		},
	}

	It("should encode/decode", func() {
		data, err := subject.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())

		var f Fragment
		Expect(f.UnmarshalBinary(data)).To(Succeed())
		Expect(f).To(Equal(subject))
	})

	It("should store geometries as WKB", func() {
		data, err := subject.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())

		blob, err := wkb.Encode(subject.Geom, wkb.NDR)
		Expect(err).NotTo(HaveOccurred())
		size, n := binary.Uvarint(data[4:])
		Expect(n).To(BeNumerically(">", 0))
		Expect(int(size)).To(Equal(len(blob)))
		Expect(data[4+n:]).To(Equal(blob))
	})

	It("should decode concatenated fragments", func() {
		other := Fragment{FeatureID: 7, Cell: Cell{Row: 1, Col: 2}, Index: 12, Geom: geom.MultiPolygon{}}
		data, err := subject.AppendBinary(nil)
		Expect(err).NotTo(HaveOccurred())
		data, err = other.AppendBinary(data)
		Expect(err).NotTo(HaveOccurred())
		data, err = subject.AppendBinary(data)
		Expect(err).NotTo(HaveOccurred())

		frags, err := DecodeFragments(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(frags).To(Equal([]Fragment{subject, other, subject}))
	})

	It("should reject truncated data", func() {
		data, err := subject.AppendBinary(nil)
		Expect(err).NotTo(HaveOccurred())

		var f Fragment
		Expect(f.UnmarshalBinary(data[:len(data)-3])).To(MatchError(errTruncated))
		Expect(f.UnmarshalBinary(data[:2])).To(MatchError(errTruncated))
		Expect(f.UnmarshalBinary(nil)).To(MatchError(errTruncated))

		frags, err := DecodeFragments(append(data, 0x01))
		Expect(err).To(MatchError(errTruncated))
		Expect(frags).To(HaveLen(1))
	})

	It("should reject bad geometries", func() {
		point, err := wkb.Encode(geom.Point{X: 1, Y: 2}, wkb.NDR)
		Expect(err).NotTo(HaveOccurred())

		data := []byte{2, 0, 0, 0, byte(len(point))}
		var f Fragment
		Expect(f.UnmarshalBinary(append(data, point...))).To(MatchError(`grid: unexpected fragment geometry geom.Point`))

		data = []byte{2, 0, 0, 0, 3, 9, 9, 9}
		Expect(f.UnmarshalBinary(data)).To(MatchError(ContainSubstring("grid: decoding fragment geometry")))
	})
})
