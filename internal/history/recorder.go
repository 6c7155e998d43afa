/*
Package history writes served searches to the search-history log in the
background.

A Recorder wraps a storage.Storage so that RecordSearch never blocks a
request: records are queued and a single goroutine writes them in small
batches. When the queue is full the record is dropped and counted.
*/
package history

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/metrics"
	"github.com/khanglvm/catalog-search/internal/storage"
)

const (
	// queueSize is the buffer size for pending records.
	queueSize = 1000

	// batchSize is the number of pending records that triggers a flush.
	batchSize = 10

	// flushInterval is how often a partial batch is written.
	flushInterval = 50 * time.Millisecond
)

// ErrStopped is returned by RecordSearch after the recorder has been closed.
var ErrStopped = errors.New("history recorder stopped")

// Recorder queues search records and writes them asynchronously. All other
// Storage methods go straight to the wrapped storage.
type Recorder struct {
	storage.Storage

	logger   *zap.Logger
	queue    chan storage.SearchRecord
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	dropped  atomic.Int64

	// mu orders sends against Stop: once stopped is set under the write
	// lock, no send is in flight and the writer's drain sees every record.
	mu      sync.RWMutex
	stopped bool
}

// NewRecorder starts a background writer in front of s.
func NewRecorder(s storage.Storage, logger *zap.Logger) *Recorder {
	return newRecorder(s, logger, queueSize)
}

func newRecorder(s storage.Storage, logger *zap.Logger, size int) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		Storage: s,
		logger:  logger,
		queue:   make(chan storage.SearchRecord, size),
		stop:    make(chan struct{}),
	}

	r.wg.Add(1)
	go r.process()

	return r
}

// RecordSearch queues rec without blocking. A full queue drops the record.
func (r *Recorder) RecordSearch(rec storage.SearchRecord) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return ErrStopped
	}

	select {
	case r.queue <- rec:
	default:
		r.dropped.Add(1)
		metrics.ObserveHistoryDrop()
		r.logger.Warn("history queue full, dropping search record",
			zap.String("search_id", rec.SearchID))
	}
	return nil
}

// Stop flushes pending records and ends the background writer. It does not
// close the wrapped storage.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		r.mu.Unlock()

		close(r.stop)
		r.wg.Wait()
	})
}

// Close stops the recorder and closes the wrapped storage.
func (r *Recorder) Close() error {
	r.Stop()
	return r.Storage.Close()
}

// Pending returns the number of queued records not yet written.
func (r *Recorder) Pending() int {
	return len(r.queue)
}

// Dropped returns how many records were discarded on a full queue.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) process() {
	defer r.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]storage.SearchRecord, 0, batchSize)
	add := func(rec storage.SearchRecord) {
		batch = append(batch, rec)
		if len(batch) >= batchSize {
			r.flush(batch)
			batch = batch[:0]
		}
	}

	for {
		select {
		case rec := <-r.queue:
			add(rec)

		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}

		case <-r.stop:
			for {
				select {
				case rec := <-r.queue:
					add(rec)
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

func (r *Recorder) flush(batch []storage.SearchRecord) {
	for _, rec := range batch {
		if err := r.Storage.RecordSearch(rec); err != nil {
			r.logger.Warn("failed to record search history",
				zap.String("search_id", rec.SearchID),
				zap.Error(err))
		}
	}
}
