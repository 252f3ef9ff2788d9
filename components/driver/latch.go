package driver

// Latch detects rising edges: Run returns true only when v is true and was
// false last time.
type Latch struct {
	val bool
}

func (l *Latch) Run(v bool) bool {
	r := v && !l.val
	l.val = v
	return r
}
