package finalhandler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/finalhandler"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func apiHandler() finalhandler.BareHandler {
	return finalhandler.BareHandlerFunc(func(w finalhandler.ResponseWriter, r *http.Request) error {
		fmt.Fprintf(w, "path:%s", r.URL.Path)
		return nil
	})
}

func TestMountBarePaths(t *testing.T) {
	mux := newServeMux(t)
	mux.MountBare("/api", apiHandler())

	for target, expected := range map[string]string{
		"/api/users":        "path:/users",
		"/api":              "path:/",
		"/api/":             "path:/",
		"/api/v1/users/123": "path:/v1/users/123",
	} {
		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil)
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, target)
		require.Equal(t, expected, rec.Body.String(), target)
	}
}

func TestMountBareMiddlewareSeesOriginalPath(t *testing.T) {
	mux := newServeMux(t)
	mux.Use(func(next finalhandler.BareHandler) finalhandler.BareHandler {
		return finalhandler.BareHandlerFunc(func(w finalhandler.ResponseWriter, r *http.Request) error {
			ctx := context.WithValue(r.Context(), ctxKey("mw_path"), r.URL.Path)
			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	})

	mux.MountBare("/api", finalhandler.BareHandlerFunc(func(w finalhandler.ResponseWriter, r *http.Request) error {
		fmt.Fprintf(w, "mw:%v,handler:%s", r.Context().Value(ctxKey("mw_path")), r.URL.Path)
		return nil
	}))

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mw:/api/users,handler:/users", rec.Body.String())
}

func TestMountError(t *testing.T) {
	mux := newServeMux(t)
	mux.Mount("/api", finalhandler.HandlerFunc(func(_ context.Context, _ finalhandler.ResponseWriter, r *http.Request) error {
		if r.URL.Path == "/missing" {
			return finalhandler.NewError(finalhandler.CodeNotFound, errors.New("no such thing"))
		}

		return errors.New("mount error")
	}))

	rec, req := httptest.NewRecorder(), newRequest(http.MethodGet, "/api/fail", "text/plain")
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal Server Error\n", rec.Body.String())

	rec, req = httptest.NewRecorder(), newRequest(http.MethodGet, "/api/missing", "text/plain")
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "no such thing\n", rec.Body.String())
}

func TestMountUseAfterMount(t *testing.T) {
	mux := newServeMux(t)
	mux.MountBare("/api", apiHandler())

	require.PanicsWithValue(t, "finalhandler: cannot call Use() after calling Handle", func() {
		mux.Use(withUser)
	})
}

func TestMountStd(t *testing.T) {
	mux := newServeMux(t)
	mux.Use(withUser)
	mux.MountStd("GET /static", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.Error(w, "custom not found", http.StatusNotFound)
			return
		}

		fmt.Fprintf(w, "std:%s,user:%v", r.URL.Path, r.Context().Value(ctxKey("user")))
	}))

	t.Run("sub path", func(t *testing.T) {
		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "std:/style.css,user:foo", rec.Body.String())
	})

	t.Run("handler owns its errors", func(t *testing.T) {
		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/missing", nil)
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "custom not found\n", rec.Body.String())
	})

	t.Run("other method reaches the final handler", func(t *testing.T) {
		rec, req := httptest.NewRecorder(), newRequest(http.MethodPost, "/static/file", "text/plain")
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Cannot POST /static/file\n", rec.Body.String())
	})
}
