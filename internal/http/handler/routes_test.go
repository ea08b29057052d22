package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoapi/internal/appstate"
	"repoapi/internal/config"
	"repoapi/internal/model"
	"repoapi/internal/repository"
	dbtest "repoapi/internal/testutil"
)

func newApp(t *testing.T, st *appstate.State) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	RegisterRoutes(app, st, prometheus.NewRegistry())
	return app
}

func memoryState(t *testing.T) *appstate.State {
	t.Helper()
	st, err := appstate.Build(config.StoreConfig{Backend: config.BackendMemory}, appstate.Resources{}, nil, nil)
	require.NoError(t, err)
	return st
}

func sqliteState(t *testing.T, name string) *appstate.State {
	t.Helper()
	db := dbtest.OpenSeededSQLite(t, name)
	st, err := appstate.Build(config.StoreConfig{Backend: config.BackendSQLite}, appstate.Resources{SQLite: db, LookupTimeout: 5 * time.Second}, nil, nil)
	require.NoError(t, err)
	return st
}

type response struct {
	status int
	body   string
}

func get(t *testing.T, app *fiber.App, path string) response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: string(body)}
}

func TestRouting(t *testing.T) {
	app := newApp(t, memoryState(t))

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{path: "/user/1", wantStatus: http.StatusOK, wantBody: `{"id":1,"name":"foo"}`},
		{path: "/user/2", wantStatus: http.StatusOK, wantBody: `{"id":2,"name":"bar"}`},
		{path: "/user/999", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{path: "/item/1", wantStatus: http.StatusOK, wantBody: `{"id":1,"name":"item1"}`},
		{path: "/item/2", wantStatus: http.StatusOK, wantBody: `{"id":2,"name":"item2"}`},
		{path: "/item/999", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{path: "/user/abc", wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{path: "/item/abc", wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{path: "/non-existent", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := get(t, app, tt.path)

			assert.Equal(t, tt.wantStatus, got.status)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, got.body)
			}
			if tt.wantCode != "" {
				var res errorPayload
				require.NoError(t, json.Unmarshal([]byte(got.body), &res))
				assert.Equal(t, tt.wantCode, res.Error.Code)
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/user/1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		got := get(t, app, "/metrics")
		assert.Equal(t, http.StatusOK, got.status)
	})
}

func TestRouting_BackendEquivalence(t *testing.T) {
	memApp := newApp(t, memoryState(t))
	sqlApp := newApp(t, sqliteState(t, "handler_equivalence"))

	paths := []string{
		"/user/0", "/user/1", "/user/2", "/user/3", "/user/999", "/user/abc",
		"/item/0", "/item/1", "/item/2", "/item/3", "/item/999", "/item/-5",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			assert.Equal(t, get(t, memApp, p), get(t, sqlApp, p))
		})
	}
}

func TestRouting_Concurrent(t *testing.T) {
	backends := map[string]*appstate.State{
		config.BackendMemory: memoryState(t),
		config.BackendSQLite: sqliteState(t, "handler_concurrent"),
	}

	want := map[string]response{
		"/user/1":   {status: http.StatusOK, body: `{"id":1,"name":"foo"}`},
		"/user/2":   {status: http.StatusOK, body: `{"id":2,"name":"bar"}`},
		"/item/1":   {status: http.StatusOK, body: `{"id":1,"name":"item1"}`},
		"/item/2":   {status: http.StatusOK, body: `{"id":2,"name":"item2"}`},
		"/user/999": {status: http.StatusNotFound},
	}
	paths := make([]string, 0, len(want))
	for p := range want {
		paths = append(paths, p)
	}

	for name, st := range backends {
		t.Run(name, func(t *testing.T) {
			base := serve(t, st)

			var wg sync.WaitGroup
			for i := 0; i < 40; i++ {
				wg.Add(1)
				go func(p string) {
					defer wg.Done()
					resp, err := http.Get(base + p)
					if !assert.NoError(t, err) {
						return
					}
					defer resp.Body.Close()
					body, _ := io.ReadAll(resp.Body)
					assert.Equal(t, want[p].status, resp.StatusCode, p)
					if want[p].body != "" {
						assert.Equal(t, want[p].body, string(body), p)
					}
				}(paths[i%len(paths)])
			}
			wg.Wait()
		})
	}
}

// serve runs the routes on a loopback listener and returns the base URL.
func serve(t *testing.T, st *appstate.State) string {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil), DisableStartupMessage: true})
	RegisterRoutes(app, st, prometheus.NewRegistry())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func TestRouting_BackendFailureIsNotFound(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := repository.NewMetrics(reg)
	require.NoError(t, err)

	failing := repository.BackendFunc[model.User](func(ctx context.Context, id repository.ID) (model.User, error) {
		return model.User{}, errors.New("store unreachable")
	})
	users := repository.Bind[model.User](failing, repository.Boundary{Kind: appstate.KindUser, Backend: "broken", Metrics: metrics})
	st := appstate.New(users, appstate.Items(memoryState(t)))

	app := newApp(t, st)

	got := get(t, app, "/user/1")
	assert.Equal(t, http.StatusNotFound, got.status)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Lookups().WithLabelValues(appstate.KindUser, "broken", repository.ResultError)))

	// the other kind is unaffected
	got = get(t, app, "/item/1")
	assert.Equal(t, http.StatusOK, got.status)
}

func TestRouting_StateIsShared(t *testing.T) {
	var calls int
	var mu sync.Mutex
	count := func(ctx context.Context, id repository.ID) (model.Item, bool) {
		mu.Lock()
		calls++
		mu.Unlock()
		return model.Item{ID: id, Name: fmt.Sprintf("item%d", id)}, true
	}
	st := appstate.New(appstate.Users(memoryState(t)), repository.Func[model.Item](count))

	app := newApp(t, st)
	for i := 1; i <= 3; i++ {
		got := get(t, app, fmt.Sprintf("/item/%d", i))
		assert.Equal(t, http.StatusOK, got.status)
		assert.True(t, strings.Contains(got.body, fmt.Sprintf(`"id":%d`, i)))
	}
	assert.Equal(t, 3, calls)
}
