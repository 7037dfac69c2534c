// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Route is a canned reply for one "METHOD /path" key of a [Backend].
type Route struct {
	Status int
	Body   string
}

// Request is a request received by a [Backend].
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

// Backend is an httptest server replying from a route table and recording every request.
// Unknown routes get 404 with a {"detail": "Not Found"} body.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Route
	requests []Request
	gate     chan struct{}
}

// NewBackend starts a [Backend] closed on test cleanup.
func NewBackend(t *testing.T, routes map[string]Route) *Backend {
	t.Helper()

	b := &Backend{routes: make(map[string]Route)}
	for k, v := range routes {
		b.routes[k] = v
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Set replaces the reply for key.
func (b *Backend) Set(key string, r Route) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key] = r
}

// Hold makes every request block until the returned release func is called.
func (b *Backend) Hold() (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gate := make(chan struct{})
	b.gate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Requests returns a copy of the recorded requests.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many requests hit key ("METHOD /path").
func (b *Backend) Count(key string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method+" "+r.Path == key {
			n++
		}
	}
	return n
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	req := Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &req.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	route, ok := b.routes[r.Method+" "+r.URL.Path]
	gate := b.gate
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if !ok {
		route = Route{Status: http.StatusNotFound, Body: `{"detail":"Not Found"}`}
	}
	if route.Status == 0 {
		route.Status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.Status)
	io.WriteString(w, route.Body)
}
