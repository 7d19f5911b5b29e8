package model

// Page is a skip/batchSize pagination window. A zero BatchSize means no
// upper bound: everything after Skip is returned.
type Page struct {
	Skip      int
	BatchSize int
}

// Offset returns Skip clamped to zero.
func (p Page) Offset() int {
	if p.Skip < 0 {
		return 0
	}
	return p.Skip
}

// Limit returns the batch size, or nil when the window is unbounded.
func (p Page) Limit() *int {
	if p.BatchSize <= 0 {
		return nil
	}
	n := p.BatchSize
	return &n
}

// Full reports whether count collected elements already fill the window.
func (p Page) Full(count int) bool {
	return p.BatchSize > 0 && count >= p.BatchSize
}
