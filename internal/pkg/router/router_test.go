package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/goauthn/internal/pkg/config"
	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthn/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthn/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	return NewRouter(Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	r := newTestRouter(t, "a: 1")
	r.POST("/echo", func(req *Request) (any, error) {
		var body struct {
			Email string `json:"email"`
		}
		if err := req.DecodeBody(&body); err != nil {
			return nil, err
		}
		return map[string]string{"email": body.Email}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"email":"a@b.c"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"request has been successfully","data":{"email":"a@b.c"}}`, rec.Body.String())
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	r := newTestRouter(t, "a: 1")
	r.POST("/fail", func(_ *Request) (any, error) {
		return nil, goerror.NewBusiness("invalid credential", goerror.CodeUnauthorized)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fail", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid credential"}`, rec.Body.String())
}

func TestRouter_FieldErrors(t *testing.T) {
	r := newTestRouter(t, "a: 1")
	r.POST("/fail", func(_ *Request) (any, error) {
		return nil, goerror.NewInvalidInput(nil, "email", "must be a valid email")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fail", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"Validation error","error":{"email":"must be a valid email"}}`, rec.Body.String())
}

func TestRouter_UnknownError(t *testing.T) {
	r := newTestRouter(t, "a: 1")
	r.GET("/boom", func(_ *Request) (any, error) {
		return nil, assert.AnError
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}

func TestRouter_PanicRecovered(t *testing.T) {
	r := newTestRouter(t, "a: 1")
	r.GET("/panic", func(_ *Request) (any, error) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, "a: 1")
	r.GET("/only-get", func(_ *Request) (any, error) { return nil, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Maintenance(t *testing.T) {
	r := newTestRouter(t, `
app:
  maintenance:
    endpoints: "/blocked"
`)
	r.GET("/blocked", func(_ *Request) (any, error) { return map[string]string{}, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blocked", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_CorrelationIDHeader(t *testing.T) {
	r := newTestRouter(t, "a: 1")
	r.GET("/ping", func(_ *Request) (any, error) { return map[string]string{}, nil })

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderCorrelationID, "keep-this-id")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "keep-this-id", rec.Header().Get(HeaderCorrelationID))
	})
}

func TestRequest_DecodeBody(t *testing.T) {
	t.Run("unknown field rejected", func(t *testing.T) {
		req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":1}`))}

		var dst struct {
			Email string `json:"email"`
		}
		assert.Error(t, req.DecodeBody(&dst))
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a"}{"email":"b"}`))}

		var dst struct {
			Email string `json:"email"`
		}
		assert.Error(t, req.DecodeBody(&dst))
	})
}

func TestNormalizeCID(t *testing.T) {
	assert.Empty(t, normalizeCID("bad\r\nvalue"))
	assert.Empty(t, normalizeCID("   "))
	assert.Equal(t, "abc", normalizeCID(" abc "))
	assert.Len(t, normalizeCID(strings.Repeat("x", 200)), 128)
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", realIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "not-an-ip")
	req.RemoteAddr = "192.0.2.9:1234"
	assert.Equal(t, "192.0.2.9", realIP(req))
}
