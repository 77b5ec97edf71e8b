package groq

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skillsenselab/scribe/transcription"
)

func TestTranscribe_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer gsk_test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3-turbo" {
			t.Errorf("model = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "podcast.mp3" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		if data, _ := io.ReadAll(f); string(data) != "fake audio" {
			t.Errorf("payload = %q", data)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	resp, err := p.Transcribe(context.Background(), transcription.Request{
		FileName: "podcast.mp3",
		Data:     []byte("fake audio"),
		APIKey:   "gsk_test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello world" {
		t.Errorf("text = %q, want 'hello world'", resp.Text)
	}
}

func TestTranscribe_AuthRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":{"message":"Invalid API Key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	_, err := p.Transcribe(context.Background(), transcription.Request{
		FileName: "podcast.mp3",
		Data:     []byte("x"),
		APIKey:   "bad",
	})
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestTranscribe_RequestModelOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Errorf("model = %q, want request override", got)
		}
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	_, err := p.Transcribe(context.Background(), transcription.Request{
		FileName: "a.wav",
		Data:     []byte("x"),
		APIKey:   "k",
		Model:    "whisper-large-v3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(Config{})
	if p.Model() != "whisper-large-v3-turbo" {
		t.Errorf("default model = %q", p.Model())
	}
	if p.Name() != ProviderName {
		t.Errorf("name = %q", p.Name())
	}
}

func TestFactory_BuildsFromMap(t *testing.T) {
	f := Factory()
	p, err := f(map[string]any{"base_url": "http://localhost:9999", "model": "whisper-large-v3"})
	if err != nil {
		t.Fatalf("factory error: %v", err)
	}
	gp, ok := p.(*Provider)
	if !ok {
		t.Fatalf("expected *Provider, got %T", p)
	}
	if gp.Model() != "whisper-large-v3" {
		t.Errorf("model = %q", gp.Model())
	}
}
