package browse

// PageSize is how many cards a browse view reveals per step.
const PageSize = 6

// Reveal tracks the monotonically growing visible-count over a filtered
// result set. The count may conceptually exceed the total; rendering always
// clamps through Window.
type Reveal struct {
	visible int
}

// NewReveal starts a view at one page.
func NewReveal() Reveal {
	return Reveal{visible: PageSize}
}

// At restores a reveal from a previously reported visible count, e.g. a
// query parameter. Non-positive values fall back to one page.
func At(visible int) Reveal {
	if visible <= 0 {
		return NewReveal()
	}
	return Reveal{visible: visible}
}

// Reset returns the count to one page. Called when the filtered set changes
// shape: on fetch completion and on explicit filter clear.
func (r *Reveal) Reset() {
	r.visible = PageSize
}

// LoadMore grows the count by one page.
func (r *Reveal) LoadMore() {
	r.visible += PageSize
}

func (r Reveal) Visible() int {
	return r.visible
}

// Window clamps the count to the filtered total for slicing.
func (r Reveal) Window(total int) int {
	if total < 0 {
		return 0
	}
	if total < r.visible {
		return total
	}
	return r.visible
}

// HasMore reports whether another LoadMore would reveal anything new.
func (r Reveal) HasMore(total int) bool {
	return r.visible < total
}
