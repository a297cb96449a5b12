package httpmetrics

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChiMiddlewareMatchedRoute(t *testing.T) {
	sm, meter := newCaptureEmitter(t, nil)

	r := chi.NewRouter()
	r.Use(ChiMiddleware(sm))
	r.Get("/posts/{language}/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	doRequest(t, r, http.MethodGet, "/posts/en/hello-world", nil)

	records := meter.byOp("record")
	require.Len(t, records, 3)
	assert.Equal(t, "/posts/{language}/{slug}", records[0].labels[LabelRoute])
	assert.Equal(t, "200", records[0].labels[LabelStatus])
}

func TestChiMiddlewareMountedRoute(t *testing.T) {
	sm, meter := newCaptureEmitter(t, nil)

	r := chi.NewRouter()
	r.Use(ChiMiddleware(sm))
	r.Route("/api", func(r chi.Router) {
		r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("user"))
		})
	})

	doRequest(t, r, http.MethodGet, "/api/users/42", nil)

	records := meter.byOp("record")
	require.Len(t, records, 3)
	assert.Equal(t, "/api/users/{id}", records[0].labels[LabelRoute])
}

func TestChiMiddlewareKeepParams(t *testing.T) {
	sm, meter := newCaptureEmitter(t, nil)

	r := chi.NewRouter()
	r.Use(ChiMiddleware(sm))
	r.Get("/posts/{language}/{slug}", func(w http.ResponseWriter, r *http.Request) {
		SetCardinalityOverride(r.Context(), CardinalityOverride{KeepParams: []string{"language"}})
		w.Write([]byte("ok"))
	})

	doRequest(t, r, http.MethodGet, "/posts/en/hello-world", nil)

	records := meter.byOp("record")
	require.Len(t, records, 3)
	assert.Equal(t, "/posts/en/{slug}", records[0].labels[LabelRoute])
}

func TestChiMiddlewareUnmatchedRoute(t *testing.T) {
	sm, meter := newCaptureEmitter(t, nil)

	r := chi.NewRouter()
	r.Use(ChiMiddleware(sm))
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	doRequest(t, r, http.MethodGet, "/users/12345", nil)

	records := meter.byOp("record")
	require.Len(t, records, 3)
	assert.Equal(t, DefaultUnmatchedRouteLabel, records[0].labels[LabelRoute])
	assert.Equal(t, "404", records[0].labels[LabelStatus])
}

func TestChiMiddlewareRegexRoute(t *testing.T) {
	sm, meter := newCaptureEmitter(t, nil)

	r := chi.NewRouter()
	r.Use(ChiMiddleware(sm))
	r.Get("/articles/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		SetCardinalityOverride(r.Context(), CardinalityOverride{KeepParams: []string{"id"}})
		w.Write([]byte("ok"))
	})

	doRequest(t, r, http.MethodGet, "/articles/42", nil)

	records := meter.byOp("record")
	require.Len(t, records, 3)
	assert.Equal(t, "/articles/42", records[0].labels[LabelRoute])
}
