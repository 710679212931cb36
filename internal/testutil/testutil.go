// Package testutil provides a fake backend for client tests: an
// httptest server speaking the {success,message,data} envelope, request
// capture, and shared fixtures.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bookshop/internal/api"
	"bookshop/internal/entity"
)

// TestBooks is a small catalog fixture.
var TestBooks = []entity.Book{
	{ID: "b1", Title: "Dế Mèn Phiêu Lưu Ký", Author: "Tô Hoài", CategoryID: "c1", CategoryName: "Thiếu nhi", Price: decimal.NewFromInt(45000)},
	{ID: "b2", Title: "Số Đỏ", Author: "Vũ Trọng Phụng", CategoryID: "c2", CategoryName: "Văn học", Price: decimal.NewFromInt(72000)},
	{ID: "b3", Title: "Clean Code", Author: "Robert C. Martin", CategoryID: "c3", CategoryName: "Công nghệ", Price: decimal.NewFromInt(250000)},
}

// TestUser is the default customer fixture.
var TestUser = entity.User{
	ID: "u1", Username: "reader", Email: "reader@example.com",
	Role: entity.RoleUser, Enabled: true,
}

// TestAdmin is the default back-office fixture.
var TestAdmin = entity.User{
	ID: "u2", Username: "boss", Email: "boss@example.com",
	Role: entity.RoleAdmin, Enabled: true,
}

// Request is one captured call to the fake backend.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
	Header http.Header
}

// Server is a fake backend keyed by "METHOD /path".
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []Request
}

// NewServer starts a fake backend and closes it on test cleanup.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{handlers: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.dispatch))
	t.Cleanup(s.Close)
	return s
}

// Client builds an api.Client against the fake backend.
func (s *Server) Client(token string) *api.Client {
	return api.New(s.URL, api.StaticToken(token), nil, 5*time.Second, 0)
}

// Handle registers a raw handler for "METHOD /path".
func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method+" "+path] = h
}

// HandleData registers a handler that replies with a success envelope
// around data.
func (s *Server) HandleData(method, path string, data any) {
	s.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteSuccess(w, data)
	})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   body,
		Header: r.Header.Clone(),
	})
	h, ok := s.handlers[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		WriteError(w, http.StatusNotFound, "no handler for "+r.Method+" "+r.URL.Path)
		return
	}
	h(w, r)
}

// Requests returns every captured call in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Calls counts captured requests matching method and path.
func (s *Server) Calls(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// WriteSuccess writes a success envelope around data.
func WriteSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

// WriteFailure writes a 200 with success:false, the backend's shape for
// domain-level rejections.
func WriteFailure(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// WriteError writes an error envelope with the given HTTP status.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// DecodeBody unmarshals a captured request body.
func DecodeBody(t *testing.T, req Request, out any) {
	t.Helper()
	if err := json.Unmarshal(req.Body, out); err != nil {
		t.Fatalf("decode %s %s body: %v", req.Method, req.Path, err)
	}
}

// BooksPage wraps books in the paged list shape /books returns.
func BooksPage(books []entity.Book) entity.Page[entity.Book] {
	return entity.Page[entity.Book]{
		Content: books,
		Limit:   len(books),
		Total:   len(books),
	}
}
