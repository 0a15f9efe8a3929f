package gradescope

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWaitForSave(t *testing.T) {
	t.Parallel()

	t.Run("detects a later write", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "hw.ipynb")
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}

		go func() {
			time.Sleep(50 * time.Millisecond)
			future := time.Now().Add(time.Hour)
			_ = os.Chtimes(path, future, future)
		}()

		if !waitForSave(context.Background(), path, 3*time.Second) {
			t.Error("waitForSave() = false, want true after mtime advanced")
		}
	})

	t.Run("times out when nothing changes", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "hw.ipynb")
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}

		start := time.Now()
		if waitForSave(context.Background(), path, 400*time.Millisecond) {
			t.Error("waitForSave() = true, want false without a write")
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("waitForSave() took %v, want under the timeout margin", elapsed)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "gone.ipynb")
		if waitForSave(context.Background(), path, 100*time.Millisecond) {
			t.Error("waitForSave() = true for a missing file")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "hw.ipynb")
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if waitForSave(ctx, path, 3*time.Second) {
			t.Error("waitForSave() = true with canceled context")
		}
	})
}
