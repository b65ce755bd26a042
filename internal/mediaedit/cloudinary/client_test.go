package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("demo", "key-1", "secret-1")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.WithUploadBase(srv.URL)
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	return client, srv
}

func TestRemoveBackgroundReturnsSecureURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/demo/image/upload") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("transformation"); got != "e_background_removal" {
			t.Errorf("transformation = %q", got)
		}
		if r.FormValue("signature") == "" {
			t.Error("missing signature")
		}
		if r.FormValue("api_key") != "key-1" {
			t.Errorf("api_key = %q", r.FormValue("api_key"))
		}
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/abc.png","public_id":"abc"}`))
	})

	url, err := client.RemoveBackground(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("RemoveBackground: %v", err)
	}
	if !strings.Contains(url, "abc.png") {
		t.Errorf("url = %q", url)
	}
}

func TestRemoveObjectBuildsDeliveryURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/pid123.png","public_id":"pid123"}`))
	})

	url, err := client.RemoveObject(context.Background(), []byte("img"), "watch")
	if err != nil {
		t.Fatalf("RemoveObject: %v", err)
	}
	want := "https://res.cloudinary.com/demo/image/upload/e_gen_remove:watch/pid123"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestUploadSurfacesProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid signature"}}`))
	})

	if _, err := client.RemoveBackground(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected provider error")
	} else if !strings.Contains(err.Error(), "Invalid signature") {
		t.Errorf("err = %v", err)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	client, err := NewClient("demo", "key-1", "secret-1")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	a := client.sign(map[string]string{"timestamp": "1", "transformation": "e_x"})
	b := client.sign(map[string]string{"transformation": "e_x", "timestamp": "1"})
	if a != b {
		t.Errorf("signature differs by map order: %s vs %s", a, b)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("demo", "", "secret"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
