package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	disk, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	return map[string]Store{
		"disk":   disk,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			content := "blob contents"

			if err := store.Put(ctx, "user_files/a.txt", strings.NewReader(content), int64(len(content)), "text/plain"); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			rc, err := store.Get(ctx, "user_files/a.txt")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			got, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != content {
				t.Errorf("Get() = %q, want %q", got, content)
			}

			if err := store.Delete(ctx, "user_files/a.txt"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, "user_files/a.txt"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreMissingBlob(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.Get(ctx, "no/such/key"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() error = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, "no/such/key"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestDiskStoreSizeMismatch(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	err = store.Put(context.Background(), "a.txt", strings.NewReader("short"), 999, "text/plain")
	if err == nil {
		t.Fatal("expected a size mismatch error")
	}

	// A failed put must not leave a readable blob behind.
	if _, err := store.Get(context.Background(), "a.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after failed put error = %v, want ErrNotFound", err)
	}
}

func TestNewKey(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantExt  string
	}{
		{name: "keeps extension", filename: "report.pdf", wantExt: ".pdf"},
		{name: "no extension", filename: "README", wantExt: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewKey("user_files", tt.filename)
			if !strings.HasPrefix(key, "user_files/") {
				t.Errorf("NewKey() = %q, want user_files/ prefix", key)
			}
			if tt.wantExt != "" && !strings.HasSuffix(key, tt.wantExt) {
				t.Errorf("NewKey() = %q, want %s suffix", key, tt.wantExt)
			}
			if key == NewKey("user_files", tt.filename) {
				t.Error("NewKey() must not repeat")
			}
		})
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "memory")
		store, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Errorf("NewFromEnv() = %T, want *MemoryStore", store)
		}
	})

	t.Run("disk backend by default", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "")
		t.Setenv("STORAGE_DIR", t.TempDir())
		store, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		if _, ok := store.(*DiskStore); !ok {
			t.Errorf("NewFromEnv() = %T, want *DiskStore", store)
		}
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "s3")
		t.Setenv("S3_BUCKET", "")
		if _, err := NewFromEnv(); err == nil {
			t.Error("expected an error without S3_BUCKET")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "tape")
		if _, err := NewFromEnv(); err == nil {
			t.Error("expected an error for an unknown backend")
		}
	})
}
