package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTP("GET", "/api/v1/clients", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/clients", 200, 20*time.Millisecond)
	m.ObserveHTTP("POST", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/clients", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.httpDuration))
}

func TestMetrics_LLMAndEvents(t *testing.T) {
	m := NewMetrics()

	m.ObserveLLM("openai", "gpt-4o", nil, time.Second)
	m.ObserveLLM("openai", "gpt-4o", errors.New("rate limited"), time.Second)
	m.ObserveCacheLookup(true)
	m.ObserveCacheLookup(false)
	m.ObserveCacheLookup(false)
	m.ObserveAnalysis("client_input", true)
	m.ObserveEventForwarded("InvoicePaid", nil)
	m.ObserveJobRun("invoice_overdue", nil)
	m.AddInvoicesOverdue(3)
	m.AddInvoicesOverdue(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("openai", "gpt-4o", OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.llmCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyzerResults.WithLabelValues("client_input", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("InvoicePaid", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("invoice_overdue", OutcomeSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.invoicesOverdue))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.ObserveLLM("openai", "gpt-4o", nil, time.Millisecond)
		m.ObserveJobRun("job", nil)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTP("GET", "/health", 200, time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `hyperflow_http_requests_total{method="GET",route="/health",status="200"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
