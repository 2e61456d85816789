package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// lineWriter fans formatted log lines out to one or more buffered sinks from
// a single background goroutine, so webhook handlers never block on disk.
type lineWriter struct {
	lines   chan []byte
	syncCh  chan chan error
	drained chan struct{}
	once    sync.Once

	outMu   sync.Mutex
	outs    []*bufio.Writer
	failure error
}

func newLineWriter(writers []io.Writer, bufSize int) *lineWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	outs := make([]*bufio.Writer, 0, len(writers))
	for _, w := range writers {
		if w == nil {
			continue
		}
		outs = append(outs, bufio.NewWriterSize(w, bufSize))
	}
	lw := &lineWriter{
		lines:   make(chan []byte, 256),
		syncCh:  make(chan chan error),
		drained: make(chan struct{}),
		outs:    outs,
	}
	go lw.run()
	return lw
}

func (w *lineWriter) run() {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.syncAll()
				close(w.drained)
				return
			}
			if len(line) == 0 {
				continue
			}
			if err := w.emit(line); err != nil {
				w.recordErr(err)
			}
		case ack := <-w.syncCh:
			ack <- w.syncAll()
		}
	}
}

// Write hands one line to the background goroutine. When the channel is full
// it blocks rather than dropping the line.
func (w *lineWriter) Write(p []byte) error {
	if err := w.err(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	w.lines <- line
	return nil
}

// Flush forces every buffered line out to the sinks and waits for it.
func (w *lineWriter) Flush() error {
	if err := w.err(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.syncCh <- ack
	return <-ack
}

// Close drains outstanding lines and reports the first write error seen.
func (w *lineWriter) Close() error {
	w.once.Do(func() {
		close(w.lines)
	})
	<-w.drained
	return w.err()
}

func (w *lineWriter) emit(line []byte) error {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	for _, out := range w.outs {
		if _, err := out.Write(line); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *lineWriter) syncAll() error {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	var errs []error
	for _, out := range w.outs {
		if err := out.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *lineWriter) err() error {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	return w.failure
}

func (w *lineWriter) recordErr(err error) {
	if err == nil {
		return
	}
	w.outMu.Lock()
	defer w.outMu.Unlock()
	if w.failure == nil {
		w.failure = err
	}
}
