package grid

// Bitmap holds one bit per cell of a NumRows x NumCols grid.
type Bitmap struct {
	NumRows, NumCols int
	words            []uint64
}

// NewBitmap allocates a cleared bitmap.
func NewBitmap(numRows, numCols int) *Bitmap {
	n := numRows * numCols
	return &Bitmap{
		NumRows: numRows,
		NumCols: numCols,
		words:   make([]uint64, (n+63)/64),
	}
}

// Set sets the bit of cell (row,col).
func (b *Bitmap) Set(row, col int) {
	n := row*b.NumCols + col
	b.words[n/64] |= 1 << uint(n%64)
}

// Get returns the bit of cell (row,col).
func (b *Bitmap) Get(row, col int) bool {
	n := row*b.NumCols + col
	return b.words[n/64]&(1<<uint(n%64)) != 0
}

// Count returns the number of set bits.
func (b *Bitmap) Count() int {
	var n int
	for _, w := range b.words {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}
