package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

const (
	defaultSinkBuf = 64 * 1024
	queueDepth     = 256
)

// asyncWriter decouples log emission from disk and terminal latency: lines
// are queued and a single goroutine fans them out to every sink in order.
type asyncWriter struct {
	queue    chan []byte
	flushReq chan chan error

	mu       sync.Mutex
	sinks    []*bufio.Writer
	firstErr error

	closeOnce sync.Once
	drained   chan struct{}
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = defaultSinkBuf
	}
	w := &asyncWriter{
		queue:    make(chan []byte, queueDepth),
		flushReq: make(chan chan error),
		drained:  make(chan struct{}),
	}
	for _, out := range writers {
		if out == nil {
			continue
		}
		w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				w.syncSinks()
				close(w.drained)
				return
			}
			w.emit(line)
		case ack := <-w.flushReq:
			ack <- w.syncSinks()
		}
	}
}

// Write enqueues one log line. A full queue blocks the caller rather than
// dropping the line.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.err(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	w.queue <- line
	return nil
}

// Flush blocks until everything queued so far has reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.err(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushReq <- ack
	return <-ack
}

// Close drains the queue and reports the first write error seen.
func (w *asyncWriter) Close() error {
	w.closeOnce.Do(func() { close(w.queue) })
	<-w.drained
	return w.err()
}

func (w *asyncWriter) emit(line []byte) {
	if len(line) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sink := range w.sinks {
		if _, err := sink.Write(line); err != nil {
			w.recordErr(err)
			return
		}
		if err := sink.Flush(); err != nil {
			w.recordErr(err)
			return
		}
	}
}

func (w *asyncWriter) syncSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.firstErr
}

// recordErr must be called with mu held.
func (w *asyncWriter) recordErr(err error) {
	if w.firstErr == nil {
		w.firstErr = err
	}
}
