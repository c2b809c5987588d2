package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// New clamps page/limit into the accepted range
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// Keep Offset from overflowing; such a page is past the end of any collection.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	return New(page, limit)
}

// Bounds returns the half-open [lo, hi) window of a collection of size n.
// A page past the end, or a hand-built Params with a negative offset, yields
// an empty window.
func (p Params) Bounds(n int) (lo, hi int) {
	lo = p.Offset
	if lo < 0 || lo > n {
		lo = n
	}
	hi = lo + p.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Window returns the page of items selected by p.
func Window[T any](items []T, p Params) []T {
	lo, hi := p.Bounds(len(items))
	return items[lo:hi]
}
