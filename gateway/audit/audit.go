package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"

	"dbassist/platform/gateway/events"
	"dbassist/platform/shared/logger"
)

const (
	maxRetries = 3
	baseDelay  = 100 * time.Millisecond
)

const insertEventQuery = `
	INSERT INTO security_events (event_type, source, detail, recorded_at)
	VALUES ($1, $2, $3, $4)
`

// Queue is an asynchronous events.Sink backed by PostgreSQL. Events are
// queued and written by a pool of workers with exponential-backoff
// retries; entries that cannot reach the database land in a local
// fallback file so no security event is ever silently dropped. Record
// never blocks the request path.
type Queue struct {
	queue    chan events.Event
	workers  int
	wg       sync.WaitGroup
	db       *sql.DB
	fallback *os.File
	mu       sync.Mutex
	log      *logger.Logger

	queued    uint64
	processed uint64
	failed    uint64
}

// NewQueue opens the fallback file and starts the worker pool.
func NewQueue(db *sql.DB, queueSize, workers int, fallbackPath string, log *logger.Logger) (*Queue, error) {
	if queueSize <= 0 {
		queueSize = 1000
	}
	if workers <= 0 {
		workers = 2
	}
	if log == nil {
		log = logger.New("audit-queue")
	}

	fallback, err := os.OpenFile(fallbackPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open fallback file: %v", err)
	}

	q := &Queue{
		queue:    make(chan events.Event, queueSize),
		workers:  workers,
		db:       db,
		fallback: fallback,
		log:      log,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	log.Info("", "", "Audit queue started", map[string]interface{}{
		"workers":    workers,
		"queue_size": queueSize,
		"fallback":   fallbackPath,
	})
	return q, nil
}

// Record queues the event for persistence. A full queue spills straight
// to the fallback file rather than blocking the caller.
func (q *Queue) Record(ev events.Event) {
	select {
	case q.queue <- ev:
		atomic.AddUint64(&q.queued, 1)
	default:
		q.mu.Lock()
		err := q.writeFallback(ev)
		q.mu.Unlock()
		if err != nil {
			q.log.Error("", "", "Audit fallback write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()

	for ev := range q.queue {
		if err := q.insert(ev); err == nil {
			atomic.AddUint64(&q.processed, 1)
			continue
		}

		atomic.AddUint64(&q.failed, 1)
		q.mu.Lock()
		err := q.writeFallback(ev)
		q.mu.Unlock()
		if err != nil {
			q.log.Error("", "", fmt.Sprintf("Audit worker %d fallback write failed", id), map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// insert writes one event with exponential-backoff retries.
func (q *Queue) insert(ev events.Event) error {
	if q.db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := q.db.Exec(insertEventQuery, string(ev.Type), ev.Source, ev.Detail, ev.Timestamp)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < maxRetries-1 {
			time.Sleep(baseDelay * time.Duration(1<<uint(attempt)))
		}
	}
	return lastErr
}

func (q *Queue) writeFallback(ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %v", err)
	}
	if _, err := fmt.Fprintf(q.fallback, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write to fallback: %v", err)
	}
	return q.fallback.Sync()
}

// Shutdown drains the queue and stops the workers. On context timeout
// the remaining entries are saved to the fallback file.
func (q *Queue) Shutdown(ctx context.Context) error {
	close(q.queue)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.log.Info("", "", "Audit queue shutdown complete", map[string]interface{}{
			"processed": atomic.LoadUint64(&q.processed),
			"failed":    atomic.LoadUint64(&q.failed),
		})
		return q.fallback.Close()
	case <-ctx.Done():
		q.mu.Lock()
		for ev := range q.queue {
			if err := q.writeFallback(ev); err != nil {
				q.log.Error("", "", "Audit drain to fallback failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
		q.mu.Unlock()
		_ = q.fallback.Close()
		return ctx.Err()
	}
}

// Stats reports queue counters for the health endpoint.
func (q *Queue) Stats() map[string]interface{} {
	return map[string]interface{}{
		"queued":    atomic.LoadUint64(&q.queued),
		"processed": atomic.LoadUint64(&q.processed),
		"failed":    atomic.LoadUint64(&q.failed),
		"pending":   len(q.queue),
	}
}
