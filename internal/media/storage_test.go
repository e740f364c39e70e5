package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResourceTypeFor(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", ResourceImage},
		{"photo.JPEG", ResourceImage},
		{"scan.heic", ResourceImage},
		{"song.mp3", ResourceVideo},
		{"clip.mp4", ResourceVideo},
		{"interview.WAV", ResourceVideo},
		{"consent.pdf", ResourceRaw},
		{"archive.zip", ResourceRaw},
		{"noextension", ResourceRaw},
	}
	for _, tc := range cases {
		if got := ResourceTypeFor(tc.filename); got != tc.want {
			t.Errorf("ResourceTypeFor(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestSignDeterministicAndOrderIndependent(t *testing.T) {
	s := &Store{APISecret: "shh"}
	a := s.sign(map[string]string{"public_id": "x", "timestamp": "1"})
	b := s.sign(map[string]string{"timestamp": "1", "public_id": "x"})
	if a != b {
		t.Fatal("signature depends on map iteration order")
	}
	if a == s.sign(map[string]string{"public_id": "y", "timestamp": "1"}) {
		t.Fatal("different params produced identical signatures")
	}
}

func TestUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/testcloud/image/upload") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("api_key") != "key" {
			t.Errorf("api_key = %q", r.FormValue("api_key"))
		}
		if r.FormValue("signature") == "" {
			t.Error("missing signature")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://cdn.example/abc.jpg",
			"public_id":  r.FormValue("public_id"),
		})
	}))
	defer srv.Close()

	s := NewStore("testcloud", "key", "secret")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	res, err := s.Upload(context.Background(), []byte("fake-bytes"), "photo.jpg", "uploads/content")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.URL != "https://cdn.example/abc.jpg" {
		t.Fatalf("url = %q", res.URL)
	}
	if res.ResourceType != ResourceImage {
		t.Fatalf("resourceType = %q", res.ResourceType)
	}
	if !strings.HasPrefix(res.PublicID, "uploads/content/") {
		t.Fatalf("publicId = %q, want uploads/content/ prefix", res.PublicID)
	}
}

func TestUploadProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewStore("testcloud", "key", "secret")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	if _, err := s.Upload(context.Background(), []byte("x"), "photo.jpg", "uploads/content"); err == nil {
		t.Fatal("expected error on provider failure")
	}
}

func TestUploadMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"public_id": "p"})
	}))
	defer srv.Close()

	s := NewStore("testcloud", "key", "secret")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	if _, err := s.Upload(context.Background(), []byte("x"), "photo.jpg", "uploads/content"); err == nil {
		t.Fatal("expected error when provider returns no URL")
	}
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/testcloud/image/destroy") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"result": "ok"})
	}))
	defer srv.Close()

	s := NewStore("testcloud", "key", "secret")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	if err := s.Delete(context.Background(), "uploads/content/abc", ResourceImage); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDeleteNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"result": "not found"})
	}))
	defer srv.Close()

	s := NewStore("testcloud", "key", "secret")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	if err := s.Delete(context.Background(), "uploads/content/abc", ResourceImage); err == nil {
		t.Fatal("expected error on non-ok result")
	}
}
