package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasbeta101/bether-backend-productos-sub000/binder"
	"github.com/lucasbeta101/bether-backend-productos-sub000/handler"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
)

type itemRequest struct {
	ID   string `path:"id"`
	Name string `json:"name"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrap_BindsAndRendersJSON(t *testing.T) {
	t.Parallel()

	h := func(ctx handler.Context, req itemRequest) handler.Response {
		return handler.JSON(map[string]string{"id": req.ID, "name": req.Name},
			handler.WithJSONStatus(http.StatusCreated),
			handler.WithJSONMeta(map[string]any{"source": "test"}),
		)
	}

	r := chi.NewRouter()
	r.Post("/items/{id}", handler.Wrap(h,
		handler.WithBinders[handler.Context, itemRequest](binder.Path(nil), binder.JSON()),
	))

	req := httptest.NewRequest(http.MethodPost, "/items/abc", strings.NewReader(`{"name":"filtro"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, map[string]any{"id": "abc", "name": "filtro"}, body.Data)
	assert.Equal(t, "test", body.Meta["source"])
	assert.Nil(t, body.Error)
}

func TestJSONBody_RendersWithoutEnvelope(t *testing.T) {
	t.Parallel()

	h := func(ctx handler.Context, _ struct{}) handler.Response {
		return handler.JSONBody(map[string]int{"succeeded": 3},
			handler.WithJSONStatus(http.StatusMultiStatus),
			handler.WithJSONMeta(map[string]any{"ignored": true}),
		)
	}

	rec := httptest.NewRecorder()
	handler.Wrap(h)(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusMultiStatus, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"succeeded":3}`, rec.Body.String())
}

func TestWrap_BindErrorGoesToErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	h := func(ctx handler.Context, req itemRequest) handler.Response {
		t.Fatal("handler must not run")
		return nil
	}
	wrapped := handler.Wrap(h,
		handler.WithBinders[handler.Context, itemRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, itemRequest](func(ctx handler.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	wrapped(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, binder.IsBindError(got))
}

func TestWrap_NilResponse(t *testing.T) {
	t.Parallel()

	var got error
	wrapped := handler.Wrap(
		func(ctx handler.Context, req struct{}) handler.Response { return nil },
		handler.WithErrorHandler[handler.Context, struct{}](func(ctx handler.Context, err error) {
			got = err
		}),
	)
	wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, got, handler.ErrNilResponse)
}

func TestWrap_DecoratorsOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mark := func(name string) handler.Decorator[handler.Context, struct{}] {
		return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
			return func(ctx handler.Context, req struct{}) handler.Response {
				calls = append(calls, name)
				return next(ctx, req)
			}
		}
	}

	wrapped := handler.Wrap(
		func(ctx handler.Context, req struct{}) handler.Response {
			calls = append(calls, "handler")
			return handler.Empty()
		},
		handler.WithDecorators(mark("outer"), mark("inner")),
	)

	rec := httptest.NewRecorder()
	wrapped(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}

func TestWrap_DefaultErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "http error", err: handler.ErrNotFound, want: http.StatusNotFound},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
				return handler.Error(tt.err)
			})
			rec := httptest.NewRecorder()
			wrapped(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestContext_DelegatesToRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := handler.NewContext(rec, req)

	assert.Same(t, req, ctx.Request())
	assert.Equal(t, rec, ctx.ResponseWriter())
	assert.NoError(t, ctx.Err())
	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

var errGone = errors.New("gone")

type fieldErrors map[string][]string

func (fieldErrors) Error() string { return "invalid" }

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	eh := handler.NewErrorHandler(logger.Discard(),
		handler.MapError(errGone, http.StatusGone, "gone", "resource is gone"),
		handler.MapValidation[fieldErrors](http.StatusBadRequest),
	)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "mapped sentinel",
			err:        errors.Join(errGone, errors.New("driver detail")),
			wantStatus: http.StatusGone,
			wantCode:   "gone",
			wantMsg:    "resource is gone",
		},
		{
			name:       "bind error",
			err:        binder.ErrInvalidJSON,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "http error",
			err:        handler.ErrServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "service_unavailable",
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("connection string mongodb://secret"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantMsg:    "an error occurred processing your request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			eh(handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil)), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error.Message)
			}
			assert.NotContains(t, rec.Body.String(), "secret")
		})
	}

	t.Run("validation details", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		eh(handler.NewContext(rec, httptest.NewRequest(http.MethodPost, "/", nil)),
			fieldErrors{"price": {"must not be negative"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeEnvelope(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "validation_error", body.Error.Code)
		assert.Equal(t, []string{"must not be negative"}, body.Error.Details["price"])
	})
}
