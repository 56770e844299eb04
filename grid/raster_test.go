package grid

import (
	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
)

func coordRing(rowCol ...float64) []Coord {
	ring := make([]Coord, 0, len(rowCol)/2+1)
	for i := 0; i+1 < len(rowCol); i += 2 {
		ring = append(ring, Coord{Row: rowCol[i], Col: rowCol[i+1]})
	}
	return append(ring, ring[0])
}

var _ = Describe("Bitmap", func() {
	It("should set and count bits", func() {
		bm := NewBitmap(9, 10)
		bm.Set(0, 0)
		bm.Set(6, 4)
		bm.Set(8, 9)
		Expect(bm.Get(0, 0)).To(BeTrue())
		Expect(bm.Get(6, 4)).To(BeTrue())
		Expect(bm.Get(8, 9)).To(BeTrue())
		Expect(bm.Get(6, 5)).To(BeFalse())
		Expect(bm.Count()).To(Equal(3))
	})
})

var _ = Describe("Rasterize", func() {
	shell := coordRing(0.2, 0.2, 0.2, 2.8, 2.8, 2.8, 2.8, 0.2)
	hole := coordRing(0.8, 0.8, 2.2, 0.8, 2.2, 2.2, 0.8, 2.2)

	It("should fill cells with covered centers", func() {
		bm := Rasterize([][]Coord{shell}, 3, 3)
		Expect(bm.Count()).To(Equal(9))
	})

	It("should apply the even-odd rule to holes", func() {
		bm := Rasterize([][]Coord{shell, hole}, 3, 3)
		Expect(bm.Count()).To(Equal(8))
		Expect(bm.Get(1, 1)).To(BeFalse())
	})

	It("should sample cell centers", func() {
		// covers the center of (1,0) only
		tri := coordRing(0.1, 0.1, 1.9, 0.1, 1.9, 1.6)
		bm := Rasterize([][]Coord{tri}, 2, 2)
		Expect(bm.Get(0, 0)).To(BeFalse())
		Expect(bm.Get(0, 1)).To(BeFalse())
		Expect(bm.Get(1, 0)).To(BeTrue())
		Expect(bm.Get(1, 1)).To(BeFalse())
	})

	It("should ignore horizontal edges and clip to the grid", func() {
		wide := coordRing(0.4, -3, 0.4, 9, 1.6, 9, 1.6, -3)
		bm := Rasterize([][]Coord{wide}, 3, 4)
		Expect(bm.Count()).To(Equal(8))
		for col := 0; col < 4; col++ {
			Expect(bm.Get(0, col)).To(BeTrue())
			Expect(bm.Get(1, col)).To(BeTrue())
			Expect(bm.Get(2, col)).To(BeFalse())
		}
	})

	It("should handle edges entering above the first row", func() {
		band := coordRing(-2, -1.8, -2, -0.8, 2, 3.2, 2, 2.2)
		bm := Rasterize([][]Coord{band}, 2, 2)
		Expect(bm.Count()).To(Equal(1))
		Expect(bm.Get(0, 1)).To(BeTrue())
	})
})
