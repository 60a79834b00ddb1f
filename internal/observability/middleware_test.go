package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chhitz007/nexora-page/internal/requestctx"
)

func TestRequestLoggerMiddlewareLevelsByStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	router := chi.NewRouter()
	router.Use(InjectLoggerMiddleware(logger))
	router.Use(RequestLoggerMiddleware("demo-project"))
	router.Get("/views/{id}/carousel", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/views/v-1/carousel", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 1)
	entry := completed[0]
	require.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	require.EqualValues(t, http.StatusNotFound, fields["status"])
	require.Equal(t, "/views/{id}/carousel", fields["route"])
	require.Equal(t, "v-1", fields["view_id"])
	require.Equal(t, true, fields["htmx"])
}

func TestRecoveryMiddlewareReturns500(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	handler := RecoveryMiddleware(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestTraceMiddlewareParsesCloudTraceHeader(t *testing.T) {
	t.Parallel()

	var info requestctx.TraceInfo
	handler := TraceMiddleware("demo-project")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		info, _ = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(cloudTraceHeader, "105445aa7843bc8bf206b12000100000/1;o=1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "105445aa7843bc8bf206b12000100000", info.TraceID)
	require.Equal(t, "demo-project", info.ProjectID)
	require.NotEmpty(t, rec.Header().Get(cloudTraceHeader))
}

func TestParseSpanIDAcceptsDecimal(t *testing.T) {
	t.Parallel()

	id, ok := parseSpanID("1")
	require.True(t, ok)
	require.Equal(t, "0000000000000001", id.String())

	_, ok = parseSpanID("")
	require.False(t, ok)
}
