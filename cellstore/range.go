package cellstore

// RangeIterator iterates across entries with keys in an inclusive interval.
type RangeIterator struct {
	it       *Iterator
	min, max uint64
	started  bool
	done     bool
}

// Range returns an iterator across all entries with min <= key <= max.
func (r *Reader) Range(min, max uint64) *RangeIterator {
	return &RangeIterator{it: r.Iterator(), min: min, max: max, done: min > max}
}

// Next advances the cursor to the next entry
func (i *RangeIterator) Next() bool {
	if i.done {
		return false
	}

	var ok bool
	if !i.started {
		i.started = true
		ok = i.it.Seek(i.min)
	} else {
		ok = i.it.Next()
	}

	if !ok || i.it.Key() > i.max {
		i.done = true
		return false
	}
	return true
}

// Key returns the key at the current cursor position.
func (i *RangeIterator) Key() uint64 { return i.it.Key() }

// Value returns the value at the current cursor position. See Iterator.Value.
func (i *RangeIterator) Value() []byte { return i.it.Value() }

// Err returns any errors from the iteration.
func (i *RangeIterator) Err() error { return i.it.Err() }

// Close releases the iterator.
func (i *RangeIterator) Close() error {
	i.done = true
	return i.it.Close()
}
