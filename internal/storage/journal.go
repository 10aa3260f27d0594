package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"linerun/pkg/utils"
)

// Record is one appended run. The checksum covers the record's canonical
// JSON (sequence, time and payload, checksum excluded) so later corruption
// of the file is detectable.
type Record struct {
	Seq      int             `json:"seq"`
	Time     string          `json:"time"`
	Run      json.RawMessage `json:"run"`
	Checksum string          `json:"checksum"`
}

// canonicalData returns the JSON bytes the checksum is computed over.
func (r *Record) canonicalData() ([]byte, error) {
	view := struct {
		Seq  int             `json:"seq"`
		Time string          `json:"time"`
		Run  json.RawMessage `json:"run"`
	}{r.Seq, r.Time, r.Run}
	return json.Marshal(view)
}

func (r *Record) computeChecksum() (string, error) {
	data, err := r.canonicalData()
	if err != nil {
		return "", err
	}
	return utils.HashBytes(data), nil
}

// Journal is an append-only JSONL history of completed runs.
type Journal struct {
	mu      sync.Mutex
	records []*Record
	path    string
}

// OpenJournal loads an existing journal file or starts an empty one.
// File format: one JSON record per line.
func OpenJournal(path string) (*Journal, error) {
	j := &Journal{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode journal entry: %w", err)
		}
		j.records = append(j.records, &rec)
	}
	return j, nil
}

// Append marshals the run, checksums it and persists it as the next record.
func (j *Journal) Append(run any) (*Record, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("marshal run: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	rec := &Record{
		Seq:  len(j.records),
		Time: time.Now().UTC().Format(time.RFC3339Nano),
		Run:  payload,
	}
	sum, err := rec.computeChecksum()
	if err != nil {
		return nil, fmt.Errorf("checksum record: %w", err)
	}
	rec.Checksum = sum

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return nil, fmt.Errorf("write journal file: %w", err)
	}

	j.records = append(j.records, rec)
	return rec, nil
}

// Records returns the journal entries in append order.
func (j *Journal) Records() []*Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*Record(nil), j.records...)
}

// FindRun returns the raw run payload whose id field matches.
func (j *Journal) FindRun(id string) (json.RawMessage, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, rec := range j.records {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec.Run, &probe); err != nil {
			continue
		}
		if probe.ID == id {
			return rec.Run, true
		}
	}
	return nil, false
}

// Verify recomputes every record checksum and checks sequence numbering.
func (j *Journal) Verify() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, rec := range j.records {
		sum, err := rec.computeChecksum()
		if err != nil {
			return fmt.Errorf("checksum record %d: %w", i, err)
		}
		if sum != rec.Checksum {
			return fmt.Errorf("checksum mismatch at record %d", i)
		}
		if rec.Seq != i {
			return fmt.Errorf("sequence mismatch: expected %d, got %d", i, rec.Seq)
		}
	}
	return nil
}
