package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todo/internal/logging"
	"todo/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(NewMemoryRepository(), logging.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestServer_CreateAndList(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/todos", `{"title":"  Buy milk  ","description":"2L","completed":false}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decode[Record](t, resp)
	if created.ID != 1 || created.Title != "Buy milk" {
		t.Errorf("unexpected created todo: %+v", created)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("expected matching timestamps, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	doJSON(t, http.MethodPost, srv.URL+"/api/todos/", `{"title":"Buy eggs"}`)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/todos", "")
	todos := decode[[]service.Todo](t, resp)
	if len(todos) != 2 || todos[0].Title != "Buy milk" || todos[1].Title != "Buy eggs" {
		t.Errorf("unexpected list: %+v", todos)
	}
}

func TestServer_ListEmptyIsArray(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/todos", "")
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestServer_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty title", `{"title":"   "}`, "Invalid title. Must be 1-255 characters"},
		{"long title", `{"title":"` + strings.Repeat("x", 256) + `"}`, "Invalid title. Must be 1-255 characters"},
		{"long description", `{"title":"ok","description":"` + strings.Repeat("x", 501) + `"}`, "Invalid description. Max 500 characters"},
		{"bad json", `{`, "Invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/todos", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			body := decode[map[string]string](t, resp)
			if body["detail"] != tt.want {
				t.Errorf("expected detail %q, got %q", tt.want, body["detail"])
			}
		})
	}
}

func TestServer_UpdatePartial(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/todos", `{"title":"Buy milk","description":"2L"}`)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/todos/1", `{"completed":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	updated := decode[service.Todo](t, resp)
	want := service.Todo{ID: 1, Title: "Buy milk", Description: "2L", Completed: true}
	if updated != want {
		t.Errorf("expected %+v, got %+v", want, updated)
	}
}

func TestServer_NotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp := doJSON(t, method, srv.URL+"/api/todos/42", `{"completed":true}`)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", method, resp.StatusCode)
			continue
		}
		body := decode[map[string]string](t, resp)
		if body["detail"] != "Todo not found" {
			t.Errorf("%s: unexpected detail %q", method, body["detail"])
		}
	}
}

func TestServer_Delete(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/todos", `{"title":"Buy milk"}`)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/todos/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/todos/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestServer_ZeroIDRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/todos/0", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServer_Stats(t *testing.T) {
	srv := newTestServer(t)
	for _, title := range []string{"a", "b", "c"} {
		doJSON(t, http.MethodPost, srv.URL+"/api/todos", `{"title":"`+title+`"}`)
	}
	doJSON(t, http.MethodPut, srv.URL+"/api/todos/2", `{"completed":true}`)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/todos/stats", "")
	stats := decode[Stats](t, resp)
	want := Stats{Total: 3, Completed: 1, Pending: 2, CompletionRate: 33.33}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "healthy" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := New(NewMemoryRepository(), logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	if err := <-errCh; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	if got := ComputeStats(nil); got != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", got)
	}
}
