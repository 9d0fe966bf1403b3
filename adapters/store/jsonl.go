package store

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"

	"gwsiren/internal/errors"
	"gwsiren/ports"
)

// maxRecordBytes bounds one serialized record line; dense grids stay far
// below this.
const maxRecordBytes = 16 * 1024 * 1024

// JSONLStore persists one JSON record per line. Append-only, so an
// interrupted batch resumes from its partial output, and independently
// generated batches merge by plain file concatenation.
type JSONLStore struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// NewJSONLStore opens (or creates) a JSONL record file.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.StoreError("failed to open record file", err)
	}
	return &JSONLStore{path: path, file: f}, nil
}

var _ ports.RecordStore = (*JSONLStore)(nil)

// Save appends one record and syncs it to disk.
func (s *JSONLStore) Save(_ context.Context, rec ports.EventRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.StoreError("failed to encode record", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(raw, '\n')); err != nil {
		return errors.StoreError("failed to append record", err)
	}
	return nil
}

// List reads back every record in the file.
func (s *JSONLStore) List(_ context.Context) ([]ports.EventRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.StoreError("failed to open record file", err)
	}
	defer f.Close()

	var records []ports.EventRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxRecordBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec ports.EventRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, errors.StoreError("failed to decode record", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.StoreError("failed to scan record file", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *JSONLStore) Count(ctx context.Context) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Close releases the append handle.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
