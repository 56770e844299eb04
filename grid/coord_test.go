package grid

import (
	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
)

var _ = Describe("Coord", func() {
	DescribeTable("OnGrid",
		func(c Coord, exp bool) {
			Expect(c.OnGrid()).To(Equal(exp))
		},
		Entry("inside", Coord{Row: 0.5, Col: 0.5}, false),
		Entry("on row line", Coord{Row: 1, Col: 0.5}, true),
		Entry("on column line", Coord{Row: 0.5, Col: 2}, true),
		Entry("on corner", Coord{Row: 3, Col: 2}, true),
		Entry("negative", Coord{Row: -1, Col: -0.5}, true),
	)

	DescribeTable("sideOf and polar",
		func(c Coord, side Side, polar float64) {
			Expect(c.sideOf(2, 3)).To(Equal(side))
			Expect(c.polar(2, 3)).To(BeNumerically("~", polar, 1e-12))
		},
		Entry("top", Coord{Row: 2, Col: 3.25}, Top, 0.25),
		Entry("right", Coord{Row: 2.5, Col: 4}, Right, 1.5),
		Entry("bottom", Coord{Row: 3, Col: 3.25}, Bottom, 2.75),
		Entry("left", Coord{Row: 2.25, Col: 3}, Left, 3.75),
		Entry("top-left corner", Coord{Row: 2, Col: 3}, Top, 0.0),
		Entry("top-right corner", Coord{Row: 2, Col: 4}, Top, 1.0),
		Entry("bottom-right corner", Coord{Row: 3, Col: 4}, Bottom, 2.0),
		Entry("bottom-left corner", Coord{Row: 3, Col: 3}, Bottom, 3.0),
	)

	It("should panic on points off the cell boundary", func() {
		Expect(func() { Coord{Row: 2.5, Col: 3.5}.sideOf(2, 3) }).To(Panic())
		Expect(func() { Coord{Row: 5, Col: 3.5}.polar(2, 3) }).To(Panic())
	})
})

var _ = Describe("Side", func() {
	It("should step clockwise", func() {
		Expect(Top.Next()).To(Equal(Right))
		Expect(Right.Next()).To(Equal(Bottom))
		Expect(Bottom.Next()).To(Equal(Left))
		Expect(Left.Next()).To(Equal(Top))
	})

	It("should return terminating corners", func() {
		Expect(Top.Corner(2, 3)).To(Equal(Coord{Row: 2, Col: 4}))
		Expect(Right.Corner(2, 3)).To(Equal(Coord{Row: 3, Col: 4}))
		Expect(Bottom.Corner(2, 3)).To(Equal(Coord{Row: 3, Col: 3}))
		Expect(Left.Corner(2, 3)).To(Equal(Coord{Row: 2, Col: 3}))
	})

	It("should compare positions along a side", func() {
		a, b := Coord{Row: 0, Col: 0.2}, Coord{Row: 0, Col: 0.7}
		Expect(Top.clockwise(a, b)).To(BeTrue())
		Expect(Top.clockwise(b, a)).To(BeFalse())

		a, b = Coord{Row: 1, Col: 0.2}, Coord{Row: 1, Col: 0.7}
		Expect(Bottom.clockwise(b, a)).To(BeTrue())
		Expect(Bottom.clockwise(a, b)).To(BeFalse())

		a, b = Coord{Row: 0.2, Col: 0}, Coord{Row: 0.7, Col: 0}
		Expect(Left.clockwise(b, a)).To(BeTrue())
		Expect(Right.clockwise(a, b)).To(BeTrue())
	})

	It("should format", func() {
		Expect(Left.String()).To(Equal("Left"))
		Expect(Side(7).String()).To(Equal("Side(7)"))
	})

	DescribeTable("clockwiseDistance",
		func(a, b, exp float64) {
			Expect(clockwiseDistance(a, b)).To(BeNumerically("~", exp, 1e-12))
		},
		Entry("forward", 1.0, 1.5, 0.5),
		Entry("wrapping", 3.5, 0.5, 1.0),
		Entry("same point", 2.0, 2.0, 4.0),
		Entry("backward", 2.5, 2.0, 3.5),
	)
})
