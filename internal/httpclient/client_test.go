package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTranscribeReturnsResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if r.FormValue("model") != "whisper-1" {
			t.Fatalf("expected model field, got %q", r.FormValue("model"))
		}
		w.Write([]byte("WEBVTT\n\n00:00.000 --> 00:01.000\nhello\n"))
	}))
	defer server.Close()

	tmp := t.TempDir()
	audioPath := filepath.Join(tmp, "audio.wav")
	if err := os.WriteFile(audioPath, []byte("fake-pcm"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	client := NewSTTClient(server.URL, 5*time.Second)
	out, err := client.Transcribe(context.TODO(), audioPath, "whisper-1", "vtt", 0.0)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if out == "" {
		t.Fatalf("expected non-empty transcript")
	}
}

func TestCompleteReturnsContentField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": "translated text"}`))
	}))
	defer server.Close()

	client := NewLLMClient(server.URL, 5*time.Second)
	out, err := client.Complete(context.TODO(), "translate: hola", 256, 0.2, nil, true)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "translated text" {
		t.Fatalf("expected translated text, got %q", out)
	}
}
