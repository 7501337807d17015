package pipe

// Counter issues the numeric suffixes of temporaries bound by [Apply] and
// [ApplyMut] steps. One Counter is used for the whole of a single
// compilation, so every temporary it names is distinct.
//
// The zero value is ready to use; the first call to Next returns 1.
type Counter struct {
	n uint64
}

// Next advances the counter and returns its new value.
func (c *Counter) Next() uint64 {
	c.n++

	return c.n
}

// Count returns the number of values issued so far.
func (c *Counter) Count() uint64 { return c.n }
