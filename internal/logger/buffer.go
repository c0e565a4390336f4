package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is a single log record held by a Buffer.
type Entry struct {
	Time    time.Time              `json:"ts"`
	Level   string                 `json:"level"`
	Logger  string                 `json:"logger,omitempty"`
	Message string                 `json:"msg"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Buffer keeps the most recent log entries in a fixed-size ring. Entries
// pushed out of the ring are appended to an optional JSON-lines spill file.
//
// Buffer implements io.Writer so it can back a zap core: every written line
// must be one JSON object as produced by zap's JSON encoder.
type Buffer struct {
	mu       sync.Mutex
	ring     []Entry
	next     int
	wrapped  bool
	notify   chan struct{}
	spill    *os.File
	spillBuf *bufio.Writer

	total   uint64
	spilled uint64
}

// NewBuffer creates a buffer holding up to size entries. If spillPath is
// not empty evicted entries are appended to that file.
func NewBuffer(size int, spillPath string) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}

	b := &Buffer{
		ring:   make([]Entry, size),
		notify: make(chan struct{}, 1),
	}

	if spillPath != "" {
		if err := os.MkdirAll(filepath.Dir(spillPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(spillPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open spill file: %w", err)
		}
		b.spill = f
		b.spillBuf = bufio.NewWriter(f)
	}

	return b, nil
}

// Write parses one or more zap JSON lines and adds them as entries.
func (b *Buffer) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			return 0, err
		}
		if err := b.add(entry); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Sync flushes the spill file.
func (b *Buffer) Sync() error {
	return b.Flush()
}

// Add appends an entry built from its arguments.
func (b *Buffer) Add(level, message string, fields map[string]interface{}) error {
	return b.add(Entry{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Fields:  fields,
	})
}

func (b *Buffer) add(entry Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.wrapped {
		err = b.spillLocked(b.ring[b.next])
	}

	b.ring[b.next] = entry
	b.next = (b.next + 1) % len(b.ring)
	if b.next == 0 {
		b.wrapped = true
	}
	b.total++

	select {
	case b.notify <- struct{}{}:
	default:
	}
	return err
}

func (b *Buffer) spillLocked(entry Entry) error {
	if b.spillBuf == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	data = append(data, '\n')
	if _, err := b.spillBuf.Write(data); err != nil {
		return fmt.Errorf("failed to write to spill file: %w", err)
	}
	b.spilled++
	return nil
}

// Recent returns up to limit of the newest entries, oldest first. A limit
// of zero or less returns everything held.
func (b *Buffer) Recent(limit int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.next
	start := 0
	if b.wrapped {
		count = len(b.ring)
		start = b.next
	}
	if limit > 0 && limit < count {
		start += count - limit
		count = limit
	}

	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, b.ring[(start+i)%len(b.ring)])
	}
	return entries
}

// Updates returns a channel that receives a value after entries were added.
// Signals are coalesced; receivers should read Recent after each one.
func (b *Buffer) Updates() <-chan struct{} {
	return b.notify
}

// Stats returns how many entries were added and how many were spilled.
func (b *Buffer) Stats() (total, spilled uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total, b.spilled
}

// Flush writes buffered spill data to disk.
func (b *Buffer) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

func (b *Buffer) flushLocked() error {
	if b.spillBuf == nil {
		return nil
	}
	if err := b.spillBuf.Flush(); err != nil {
		return fmt.Errorf("failed to flush spill writer: %w", err)
	}
	if err := b.spill.Sync(); err != nil {
		return fmt.Errorf("failed to sync spill file: %w", err)
	}
	return nil
}

// Close spills every entry still held and closes the spill file.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.spill == nil {
		return nil
	}

	count, start := b.next, 0
	if b.wrapped {
		count, start = len(b.ring), b.next
	}
	for i := 0; i < count; i++ {
		if err := b.spillLocked(b.ring[(start+i)%len(b.ring)]); err != nil {
			return err
		}
	}

	if err := b.flushLocked(); err != nil {
		return err
	}
	err := b.spill.Close()
	b.spill, b.spillBuf = nil, nil
	if err != nil {
		return fmt.Errorf("failed to close spill file: %w", err)
	}
	return nil
}

// parseEntry converts a zap JSON line into an Entry. Keys other than the
// standard ones end up in Fields.
func parseEntry(line []byte) (Entry, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(line, &raw); err != nil {
		return Entry{}, fmt.Errorf("failed to parse log line: %w", err)
	}

	entry := Entry{Time: time.Now()}
	if v, ok := raw[keyTime].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			entry.Time = ts
		}
	}
	entry.Level, _ = raw[keyLevel].(string)
	entry.Logger, _ = raw[keyName].(string)
	entry.Message, _ = raw[keyMessage].(string)

	for _, k := range []string{keyTime, keyLevel, keyName, keyMessage} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry, nil
}
