// Package datalog is the append-only record of every accepted sensor
// report, one JSON object per line. Writes happen on a dedicated goroutine
// so ingestion never blocks on disk.
package datalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Entry is one logged report.
type Entry struct {
	DeviceName string             `json:"device_name"`
	Sensors    map[string]float64 `json:"sensors"`
	ReceivedAt time.Time          `json:"received_at"`
}

// Sink accepts entries for durable append. Implementations must never block
// the caller on I/O and must swallow write failures.
type Sink interface {
	Append(Entry)
	Close() error
}

// FileSink appends JSON lines to a single file. Entries are queued on a
// buffered channel and written in FIFO order by one goroutine; a full queue
// drops the entry with a warning rather than stalling ingestion.
type FileSink struct {
	f       *os.File
	queue   chan Entry
	done    chan struct{}
	onDrop  func(error)
	closeMu sync.Mutex
	closed  bool
}

// NewFileSink opens (or creates) the log file for appending. onDrop receives
// queue-overflow and write failures; nil means log them.
func NewFileSink(path string, buffer int, onDrop func(error)) (*FileSink, error) {
	if buffer <= 0 {
		buffer = 256
	}
	if onDrop == nil {
		onDrop = func(err error) { log.Printf("datalog: %v", err) }
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open data log: %w", err)
	}

	s := &FileSink{
		f:      f,
		queue:  make(chan Entry, buffer),
		done:   make(chan struct{}),
		onDrop: onDrop,
	}
	go s.run()
	return s, nil
}

// Append queues an entry for writing. It never blocks and never fails the
// caller; a saturated queue drops the entry, as does a sink that has been
// closed.
func (s *FileSink) Append(e Entry) {
	// The send must happen under closeMu so Close cannot close the queue
	// between the closed check and the send.
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		s.onDrop(fmt.Errorf("sink closed, dropping report from %s", e.DeviceName))
		return
	}
	select {
	case s.queue <- e:
	default:
		s.onDrop(fmt.Errorf("queue full, dropping report from %s", e.DeviceName))
	}
}

// Close drains pending entries and closes the file.
func (s *FileSink) Close() error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.closeMu.Unlock()

	<-s.done
	return s.f.Close()
}

func (s *FileSink) run() {
	defer close(s.done)
	for e := range s.queue {
		line, err := json.Marshal(e)
		if err != nil {
			s.onDrop(fmt.Errorf("marshal entry from %s: %w", e.DeviceName, err))
			continue
		}
		if _, err := s.f.Write(append(line, '\n')); err != nil {
			s.onDrop(fmt.Errorf("write entry from %s: %w", e.DeviceName, err))
		}
	}
}
