package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/PromptWall/promptwall/pkg/domain/audit"
)

const (
	auditFileName   = "audit.jsonl"
	threatsFileName = "threats.jsonl"
)

// FileAuditRepository appends records as JSON lines. Flagged records are
// duplicated into a separate threats file so the flagged tail can be
// read without scanning the full ledger.
type FileAuditRepository struct {
	mu          sync.Mutex
	auditPath   string
	threatsPath string
}

func NewFileAuditRepository(dir string) (*FileAuditRepository, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	return &FileAuditRepository{
		auditPath:   filepath.Join(dir, auditFileName),
		threatsPath: filepath.Join(dir, threatsFileName),
	}, nil
}

func (r *FileAuditRepository) Append(_ context.Context, record *audit.Record) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := appendLine(r.auditPath, line); err != nil {
		return err
	}
	if record.Flagged() {
		if err := appendLine(r.threatsPath, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *FileAuditRepository) Tail(_ context.Context, limit int) ([]audit.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tailRecords(r.auditPath, limit)
}

func (r *FileAuditRepository) TailFlagged(_ context.Context, limit int) ([]audit.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tailRecords(r.threatsPath, limit)
}

func (r *FileAuditRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, path := range []string{r.auditPath, r.threatsPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func appendLine(path string, line []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

func tailRecords(path string, limit int) ([]audit.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []audit.Record{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	records := make([]audit.Record, 0, len(lines))
	for _, line := range lines {
		var record audit.Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("corrupt audit line: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}
