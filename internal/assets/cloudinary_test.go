package assets

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSign(t *testing.T) {
	// Worked example from the Cloudinary signature docs.
	got := Sign(map[string]string{
		"timestamp": "1315060510",
		"public_id": "sample_image",
		"eager":     "w_400,h_300,c_pad|w_260,h_200,c_crop",
	}, "abcd")
	if want := "bfd09f95f331f558cbd1320e67aa8d488770583e"; got != want {
		t.Errorf("Sign = %s, want %s", got, want)
	}

	// Empty values are not signed.
	a := Sign(map[string]string{"timestamp": "1", "folder": ""}, "s")
	b := Sign(map[string]string{"timestamp": "1"}, "s")
	if a != b {
		t.Error("empty parameter changed the signature")
	}
}

func testCloudinary(t *testing.T, h http.HandlerFunc) *Cloudinary {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewCloudinary(srv.URL, "demo", "key", "secret", "11eleven", 5*time.Second)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestUploadFile(t *testing.T) {
	var gotFile, gotSig, gotFolder string
	c := testCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/upload" {
			t.Errorf("path = %s", r.URL.Path)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		data, _ := io.ReadAll(f)
		gotFile = string(data)
		gotSig = r.FormValue("signature")
		gotFolder = r.FormValue("folder")
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/card.png"}`))
	})

	path := filepath.Join(t.TempDir(), "card.png")
	os.WriteFile(path, []byte("png-bytes"), 0o644)

	url, err := c.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/card.png" {
		t.Errorf("url = %s", url)
	}
	if gotFile != "png-bytes" || gotFolder != "11eleven" {
		t.Errorf("file = %q, folder = %q", gotFile, gotFolder)
	}
	want := Sign(map[string]string{"timestamp": "1700000000", "folder": "11eleven"}, "secret")
	if gotSig != want {
		t.Errorf("signature = %s, want %s", gotSig, want)
	}
}

func TestUploadURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cards/a.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote"))
	})
	mux.HandleFunc("/demo/image/upload", func(w http.ResponseWriter, r *http.Request) {
		f, header, _ := r.FormFile("file")
		data, _ := io.ReadAll(f)
		if string(data) != "remote" || header.Filename != "a.png" {
			t.Errorf("uploaded %q as %q", data, header.Filename)
		}
		w.Write([]byte(`{"url":"http://res.cloudinary.com/demo/a.png"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewCloudinary(srv.URL, "demo", "key", "secret", "", 0)
	url, err := c.UploadURL(context.Background(), srv.URL+"/cards/a.png")
	if err != nil || url != "http://res.cloudinary.com/demo/a.png" {
		t.Errorf("UploadURL = %q, %v", url, err)
	}

	if _, err := c.UploadURL(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for a missing source image")
	}
}

func TestUploadErrors(t *testing.T) {
	c := testCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	})
	path := filepath.Join(t.TempDir(), "card.png")
	os.WriteFile(path, []byte("x"), 0o644)

	if _, err := c.UploadFile(context.Background(), path); err == nil || !strings.Contains(err.Error(), "Invalid Signature") {
		t.Errorf("err = %v, want upstream message", err)
	}

	unconfigured := NewCloudinary("http://unused", "", "", "", "", 0)
	if _, err := unconfigured.UploadFile(context.Background(), path); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
