package progress

// Update is a progress write. Completed is always derived from Percentage.
type Update struct {
	Percentage int
	Completed  bool
}

// NewUpdate clamps pct to 0..100 and sets Completed iff it is 100.
func NewUpdate(pct int) Update {
	pct = max(0, min(100, pct))
	return Update{Percentage: pct, Completed: pct == 100}
}

// Step moves pct by delta and returns the resulting update.
func Step(pct, delta int) Update {
	return NewUpdate(pct + delta)
}
