package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Do_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/ping"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestClient_Do_BearerAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/",
		Auth:   BearerAuth("tok123"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestClient_Do_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such clip", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/x"})
	if err == nil {
		t.Fatal("expected status error")
	}
	httpErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if httpErr.Code != ErrCodeStatus || httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected classification: %+v", httpErr)
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Error("response should still be returned alongside a status error")
	}
}

func TestClient_Do_ConnectionError(t *testing.T) {
	c := New(Config{Timeout: time.Second})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "http://127.0.0.1:1/"})
	if err == nil {
		t.Fatal("expected connection error")
	}
	httpErr, ok := err.(*Error)
	if !ok || httpErr.Code != ErrCodeConnection {
		t.Errorf("expected connection classification, got %v", err)
	}
}

func TestClient_Do_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: srv.URL})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	httpErr, ok := err.(*Error)
	if !ok || !httpErr.IsTimeout() {
		t.Errorf("expected timeout classification, got %v", err)
	}
}

func TestClient_DoStream_BodyOwnedByCaller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("streamed bytes"))
	}))
	defer srv.Close()

	c := New(Config{})
	stream, err := c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream.Body)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if string(data) != "streamed bytes" {
		t.Errorf("unexpected stream content %q", data)
	}
}

func TestClient_DoStream_ErrorStatusClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	c := New(Config{})
	_, err := c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: srv.URL})
	if err == nil {
		t.Fatal("expected error for 410 response")
	}
	httpErr, ok := err.(*Error)
	if !ok || httpErr.StatusCode != http.StatusGone {
		t.Errorf("unexpected error %v", err)
	}
}

func TestClient_Do_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.FormValue("model"); got != "whisper-large-v3-turbo" {
			t.Errorf("model field = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		if hdr.Filename != "podcast.mp3" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		data, _ := io.ReadAll(f)
		if !strings.Contains(string(data), "audio") {
			t.Errorf("file content = %q", data)
		}
	}))
	defer srv.Close()

	c := New(Config{})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   srv.URL,
		Body: &MultipartBody{
			Fields: map[string]string{"model": "whisper-large-v3-turbo"},
			Files: []FileField{{
				FieldName: "file",
				FileName:  "podcast.mp3",
				Data:      []byte("audio bytes"),
			}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
