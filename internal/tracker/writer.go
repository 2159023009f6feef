package tracker

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// writer is a fire-and-forget persistence queue. Values are keyed by slot
// and the latest value for a slot replaces any pending one. A failed write
// is logged and dropped, never retried.
type writer struct {
	storage Storage
	log     *zerolog.Logger

	mu       sync.Mutex
	pending  map[string]string
	issued   uint64
	done     uint64
	progress chan struct{}
	closed   bool

	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
}

func newWriter(storage Storage, log *zerolog.Logger) *writer {
	w := &writer{
		storage:  storage,
		log:      log,
		pending:  map[string]string{},
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue never blocks.
func (w *writer) enqueue(key, value string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.log.Debug().Str("key", key).Msg("writer closed, dropping write")
		return
	}
	w.pending[key] = value
	w.issued++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.mu.Unlock()
			return
		}
		batch := w.pending
		seq := w.issued
		w.pending = map[string]string{}
		w.mu.Unlock()

		keys := make([]string, 0, len(batch))
		for key := range batch {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := w.storage.Set(context.Background(), key, batch[key]); err != nil {
				w.log.Error().Err(err).Str("key", key).Msg("failed to persist, write dropped")
				continue
			}
			w.log.Trace().Str("key", key).Int("bytes", len(batch[key])).Msg("persisted")
		}

		w.mu.Lock()
		w.done = seq
		close(w.progress)
		w.progress = make(chan struct{})
		w.mu.Unlock()
	}
}

// flush waits until every write enqueued before the call has been attempted.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.issued
	for w.done < target {
		ch := w.progress
		w.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		w.mu.Lock()
	}
	w.mu.Unlock()
	return nil
}

// close drains pending writes and stops the goroutine.
func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
