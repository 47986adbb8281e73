package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// DBQueue serializes sqlite access through a single worker goroutine.
// Besides keeping the driver happy under concurrent updates, it makes a
// read-then-insert sequence inside one Execute call atomic with respect
// to other requests.
type DBQueue struct {
	db         *sql.DB
	queryQueue chan *dbRequest
	done       chan struct{}
}

type dbRequest struct {
	query    func(*sql.DB) error
	response chan error
}

// NewDBQueue creates a new DBQueue instance
func NewDBQueue(db *sql.DB) *DBQueue {
	q := &DBQueue{
		db:         db,
		queryQueue: make(chan *dbRequest, 100),
		done:       make(chan struct{}),
	}
	go q.processQueue()
	return q
}

func (q *DBQueue) processQueue() {
	for {
		select {
		case req := <-q.queryQueue:
			req.response <- q.executeWithRetry(req.query)
		case <-q.done:
			return
		}
	}
}

// executeWithRetry retries SQLITE_BUSY errors with linear backoff
func (q *DBQueue) executeWithRetry(query func(*sql.DB) error) error {
	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		err := query(q.db)
		if err == nil {
			return nil
		}
		if !isBusyError(err) {
			return err
		}
		time.Sleep(time.Millisecond * time.Duration(100*(i+1)))
	}
	return errors.New("max retries exceeded for SQLITE_BUSY")
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "database is locked") ||
		strings.Contains(s, "SQLITE_BUSY")
}

// Execute runs a database operation through the queue and waits for it
func (q *DBQueue) Execute(query func(*sql.DB) error) error {
	req := &dbRequest{
		query:    query,
		response: make(chan error, 1),
	}
	q.queryQueue <- req
	return <-req.response
}

// Close stops the worker goroutine
func (q *DBQueue) Close() {
	close(q.done)
}
