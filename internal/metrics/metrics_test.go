package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
)

type capture struct{ got []model.EventType }

func (c *capture) Publish(e model.Event) { c.got = append(c.got, e.Type) }

func TestPublisher_CountsAndForwards(t *testing.T) {
	m := New()
	next := &capture{}
	pub := m.Publisher(next)

	pub.Publish(model.Event{Type: model.EventProductApproved})
	pub.Publish(model.Event{Type: model.EventProductApproved})
	pub.Publish(model.Event{Type: model.EventProductFullyApproved})
	pub.Publish(model.Event{Type: model.EventProductRejected})

	assert.Equal(t, []model.EventType{
		model.EventProductApproved, model.EventProductApproved,
		model.EventProductFullyApproved, model.EventProductRejected,
	}, next.got)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues(string(model.EventProductApproved))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.finalizedBatches.WithLabelValues("APPROVED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.finalizedBatches.WithLabelValues("REJECTED")))

	// A nil downstream publisher is allowed.
	m.Publisher(nil).Publish(model.Event{Type: model.EventIngredientAdded})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues(string(model.EventIngredientAdded))))

	// One series per event type seen so far.
	n, err := testutil.GatherAndCount(m.registry, "supplytrace_events_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/7", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/products/:id", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `supplytrace_http_requests_total{method="GET",route="/api/products/:id",status="404"} 1`)
}
