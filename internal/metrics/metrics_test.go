package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axonresolve/pkg/resolve"
)

func TestCollector_ObserveResolution(t *testing.T) {
	c := NewCollector()

	c.ObserveResolution(resolve.FromQueryMarker, resolve.OutcomeResolved, 2*time.Millisecond)
	c.ObserveResolution(resolve.FromQueryMarker, resolve.OutcomeResolved, time.Millisecond)
	c.ObserveResolution(resolve.FromQueryMarker, resolve.OutcomeError, time.Millisecond)
	c.ObserveResolution(resolve.FromBodyMarker, resolve.OutcomeAbsent, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.resolutions.WithLabelValues("FromQuery", "resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("FromQuery", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("FromBody", "absent")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))
}

func TestCollector_SetRegistry(t *testing.T) {
	c := NewCollector()
	c.SetRegistry(resolve.MustNewRegistry())
	assert.Equal(t, 0.0, testutil.ToFloat64(c.resolvers))
}

func TestCollector_Gatherer(t *testing.T) {
	c := NewCollector()
	c.ObserveResolution(resolve.FromQueryMarker, resolve.OutcomeResolved, time.Millisecond)
	c.ObserveResolution(resolve.FromBodyMarker, resolve.OutcomeError, time.Millisecond)

	expected := `
# HELP axonresolve_resolutions_total Count of argument resolutions by marker and outcome.
# TYPE axonresolve_resolutions_total counter
axonresolve_resolutions_total{marker="FromBody",outcome="error"} 1
axonresolve_resolutions_total{marker="FromQuery",outcome="resolved"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected),
		"axonresolve_resolutions_total"))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveResolution(resolve.FromBodyMarker, resolve.OutcomeResolved, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `axonresolve_resolutions_total{marker="FromBody",outcome="resolved"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
