package writer

import (
	"strings"
	"sync"
)

// ByteWriter collects everything written to it. It is safe for concurrent
// writers, which lets tests hand it to loggers.
type ByteWriter struct {
	mu   sync.Mutex
	data []byte
}

func New() *ByteWriter {
	return &ByteWriter{
		data: make([]byte, 0),
	}
}

func (b *ByteWriter) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, data...)
	return len(data), nil
}

func (b *ByteWriter) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.data)
}

// Lines returns the written text split into lines, without the trailing
// empty one.
func (b *ByteWriter) Lines() []string {
	s := strings.TrimSuffix(b.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (b *ByteWriter) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = b.data[:0]
}
