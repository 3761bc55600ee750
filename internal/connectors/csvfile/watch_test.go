package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "cars.csv")
	other := filepath.Join(dir, "notes.txt")

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		wantType domain.ChangeType
	}{
		{"write", target, fsnotify.Write, domain.ChangeUpdated},
		{"create", target, fsnotify.Create, domain.ChangeUpdated},
		{"remove", target, fsnotify.Remove, domain.ChangeDeleted},
		{"rename", target, fsnotify.Rename, domain.ChangeDeleted},
		{"combined write and chmod", target, fsnotify.Write | fsnotify.Chmod, domain.ChangeUpdated},
		{"chmod only", target, fsnotify.Chmod, ""},
		{"other file", other, fsnotify.Write, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := handleFsEvent(target, fsnotify.Event{Name: tt.path, Op: tt.op})

			if tt.wantType == "" {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.wantType, change.Type)
			assert.Equal(t, target, change.Path)
		})
	}
}

func TestSource_Watch(t *testing.T) {
	t.Run("detects modifications", func(t *testing.T) {
		path := writeCSV(t, header)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := New(path).Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(path, []byte(dataset), 0o600)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeUpdated, change.Type)
			assert.Equal(t, "cars.csv", filepath.Base(change.Path))
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for change event")
		}
	})

	t.Run("detects removal", func(t *testing.T) {
		path := writeCSV(t, header)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := New(path).Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeDeleted, change.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for remove event")
		}
	})

	t.Run("closes channel on cancel", func(t *testing.T) {
		path := writeCSV(t, header)
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := New(path).Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed after cancel")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "nope", "cars.csv")).Watch(context.Background())

		assert.Error(t, err)
	})

	t.Run("closed source", func(t *testing.T) {
		s := New(writeCSV(t, header))
		require.NoError(t, s.Close())

		_, err := s.Watch(context.Background())

		assert.ErrorIs(t, err, ErrClosed)
	})
}
