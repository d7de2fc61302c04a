package googlechat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsJSONText(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("webhook body is not JSON: %q", raw)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewClient(server.URL).Send(context.Background(), Message{Text: "📝 hello\nworld"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method: got %q, want POST", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type: got %q", gotContentType)
	}
	if gotBody.Text != "📝 hello\nworld" {
		t.Errorf("text: got %q", gotBody.Text)
	}
}

func TestSendReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("oops")) //nolint:errcheck
	}))
	defer server.Close()

	err := NewClient(server.URL).Send(context.Background(), Message{Text: "x"})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got %v, want *StatusError", err)
	}
	if statusErr.StatusCode != 500 || statusErr.Body != "oops" {
		t.Errorf("got %+v", statusErr)
	}
}

func TestSendTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewClient(url).Send(context.Background(), Message{Text: "x"})
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("transport failure should not be a StatusError: %v", err)
	}
}
