package csvfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/logger"
)

// Watch reports changes to the CSV file until ctx is done. The parent
// directory is watched so that editors which save by rename are noticed.
// The returned channel is closed when watching stops.
func (s *Source) Watch(ctx context.Context) (<-chan domain.DatasetChange, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(s.path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan domain.DatasetChange, 8)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change := handleFsEvent(abs, event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("csv watch: %v", err)
			}
		}
	}()

	return changes, nil
}

// handleFsEvent maps a directory event to a change of target, or nil when
// the event concerns another file or only touches metadata.
func handleFsEvent(target string, event fsnotify.Event) *domain.DatasetChange {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.DatasetChange{Path: target, Type: domain.ChangeDeleted}
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		return &domain.DatasetChange{Path: target, Type: domain.ChangeUpdated}
	default:
		return nil
	}
}
