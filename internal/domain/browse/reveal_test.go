package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevealStartsAtOnePage(t *testing.T) {
	r := NewReveal()
	assert.Equal(t, PageSize, r.Visible())
}

func TestRevealLoadMoreGrowsByPage(t *testing.T) {
	r := NewReveal()
	r.LoadMore()
	assert.Equal(t, 2*PageSize, r.Visible())
	r.LoadMore()
	assert.Equal(t, 3*PageSize, r.Visible())
}

func TestRevealResetReturnsToOnePage(t *testing.T) {
	r := NewReveal()
	r.LoadMore()
	r.LoadMore()
	r.Reset()
	assert.Equal(t, PageSize, r.Visible())
}

func TestAtFallsBackOnNonPositive(t *testing.T) {
	assert.Equal(t, PageSize, At(0).Visible())
	assert.Equal(t, PageSize, At(-3).Visible())
	assert.Equal(t, 14, At(14).Visible())
}

func TestWindowClampsToTotal(t *testing.T) {
	r := At(12)
	assert.Equal(t, 12, r.Window(100))
	assert.Equal(t, 7, r.Window(7))
	assert.Equal(t, 0, r.Window(0))
	assert.Equal(t, 0, r.Window(-1))
}

func TestWindowIsIdempotentPastTotal(t *testing.T) {
	// growing the count past the total keeps the window pinned there
	r := At(6)
	r.LoadMore()
	r.LoadMore()
	assert.Equal(t, 8, r.Window(8))
	assert.Equal(t, 18, r.Visible())
}

func TestHasMore(t *testing.T) {
	r := NewReveal()
	assert.True(t, r.HasMore(PageSize+1))
	assert.False(t, r.HasMore(PageSize))
	assert.False(t, r.HasMore(0))

	r.LoadMore()
	assert.False(t, r.HasMore(PageSize+1))
}

func TestRevealScenarioFourteenResults(t *testing.T) {
	// 14 filtered results: 6, then 12, then all 14 and no more
	r := NewReveal()
	assert.Equal(t, 6, r.Window(14))
	assert.True(t, r.HasMore(14))

	r.LoadMore()
	assert.Equal(t, 12, r.Window(14))
	assert.True(t, r.HasMore(14))

	r.LoadMore()
	assert.Equal(t, 14, r.Window(14))
	assert.False(t, r.HasMore(14))
}
