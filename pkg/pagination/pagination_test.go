package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNew_Clamps(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 20, Offset: 0}, New(0, 0))
	assert.Equal(t, Params{Page: 3, Limit: 100, Offset: 200}, New(3, 500))
	assert.Equal(t, Params{Page: 2, Limit: 5, Offset: 5}, New(2, 5))
}

func TestParse_FromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/?page=2&limit=abc", nil)

	p := Parse(c)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Window(items, New(2, 2)))
	assert.Equal(t, []int{5}, Window(items, New(3, 2)))
	assert.Empty(t, Window(items, New(9, 2)))
}

func TestNew_HugePageDoesNotOverflow(t *testing.T) {
	p := New(1<<62, 100)
	assert.Equal(t, 100, p.Limit)
	assert.GreaterOrEqual(t, p.Offset, 0)
	assert.Equal(t, math.MaxInt/100, p.Page)

	assert.Empty(t, Window([]int{1, 2, 3}, p))
}

func TestParse_HugePageFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/?page=9223372036854775807&limit=100", nil)

	assert.Empty(t, Window([]int{1, 2, 3}, Parse(c)))
}

func TestBounds_NegativeOffset(t *testing.T) {
	lo, hi := Params{Page: 1, Limit: 10, Offset: -100}.Bounds(3)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 3, hi)
}
