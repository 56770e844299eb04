package grid

import (
	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
	"github.com/ctessum/geom"
)

var _ = Describe("difference", func() {
	cell := Cell{Row: 9, Col: 9}
	square := []geom.Point(unitSquare(cell)[0])

	It("should keep cells with holes on their corners", func() {
		quad := ring(9.5, 9.5, 10, 9.5, 10, 10, 9.5, 10)
		mp := difference(cell, [][]geom.Point{square}, [][]geom.Point{quad})
		Expect(mp).To(HaveLen(1))
		Expect(mp.Area()).To(Equal(0.75))

		reversePoints(quad)
		mp = difference(cell, [][]geom.Point{square}, [][]geom.Point{quad})
		Expect(mp.Area()).To(Equal(0.75))
	})

	It("should subtract holes along two sides", func() {
		notch := ring(9.5, 9, 10, 9.5, 10, 10, 9.5, 10)
		mp := difference(cell, [][]geom.Point{square}, [][]geom.Point{notch})
		Expect(mp).To(HaveLen(1))
		Expect(mp.Area()).To(Equal(0.625))
	})

	It("should return holes within polygons", func() {
		inner := ring(9.25, 9.25, 9.75, 9.25, 9.75, 9.75, 9.25, 9.75)
		mp := difference(cell, [][]geom.Point{square}, [][]geom.Point{inner})
		Expect(mp).To(HaveLen(1))
		Expect(mp[0]).To(HaveLen(2))
		Expect(mp[0][0]).To(HaveLen(5))
		Expect(mp[0][1]).To(HaveLen(5))
		Expect(mp.Area()).To(Equal(0.75))
	})

	It("should drop fully covered cells", func() {
		Expect(difference(cell, [][]geom.Point{square}, [][]geom.Point{square})).To(BeEmpty())
	})

	It("should subtract from several shells", func() {
		left := ring(9, 9, 9.5, 9, 9.5, 10, 9, 10)
		right := ring(9.75, 9, 10, 9, 10, 10, 9.75, 10)
		band := ring(9, 9.5, 10, 9.5, 10, 10, 9, 10)
		mp := difference(cell, [][]geom.Point{left, right}, [][]geom.Point{band})
		Expect(mp).To(HaveLen(2))
		Expect(mp.Area()).To(Equal(0.375))
	})
})
