package ops

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"
)

func newTestBackend(t *testing.T, handler http.Handler) (*Backend, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBackend(server.URL, 2*time.Second), server
}

func newTestHandler(t *testing.T, backendHandler http.Handler) *Handler {
	t.Helper()
	backend, _ := newTestBackend(t, backendHandler)
	return NewHandler(nil, backend, aqm.NewConfig(), aqm.NewNoopLogger())
}

func requestWithSession(r *http.Request, session *Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
}

func TestBackendDecodesErrorEnvelope(t *testing.T) {
	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"table_number already exists"}`))
	}))

	err := backend.getJSON(context.Background(), "/tables", nil, &struct{}{})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
	if apiErr.Message != "table_number already exists" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"api error", &APIError{Status: 404}, 404},
		{"plain error", errors.New("boom"), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBackendMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message wins", &APIError{Status: 400, Message: "bad capacity"}, "bad capacity"},
		{"empty message falls back", &APIError{Status: 500}, "fallback"},
		{"transport error falls back", errors.New("connection refused"), "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BackendMessage(tt.err, "fallback"); got != tt.want {
				t.Errorf("BackendMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBackendSendsMultipart(t *testing.T) {
	var gotFields map[string]string
	var gotFile string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotFields = map[string]string{}
		for key := range r.MultipartForm.Value {
			gotFields[key] = r.FormValue(key)
		}
		if _, header, err := r.FormFile("image"); err == nil {
			gotFile = header.Filename
		}
		w.Write([]byte(`{"message":"created"}`))
	}))

	fields := map[string]string{"name": "Espresso", "price": "3.50"}
	file := &FormFile{FieldName: "image", FileName: "espresso.jpg", Data: []byte("fake")}

	var result messageEnvelope
	err := backend.sendMultipart(context.Background(), http.MethodPost, "/menu_items", fields, file, &result)
	if err != nil {
		t.Fatalf("sendMultipart: %v", err)
	}

	if gotFields["name"] != "Espresso" || gotFields["price"] != "3.50" {
		t.Errorf("fields = %v", gotFields)
	}
	if gotFile != "espresso.jpg" {
		t.Errorf("file = %q, want espresso.jpg", gotFile)
	}
	if result.Message != "created" {
		t.Errorf("message = %q", result.Message)
	}
}
