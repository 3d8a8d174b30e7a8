package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"morpheusScope/internal/model"
)

const (
	KindProject = "project"
	KindUser    = "user"
)

// Record is one JSONL line.
type Record struct {
	Kind       string                `json:"kind"`
	Network    string                `json:"network"`
	CapturedAt string                `json:"capturedAt"`
	Project    *model.BuilderProject `json:"project,omitempty"`
	User       *model.BuilderUser    `json:"user,omitempty"`
}

// JsonlStorage appends snapshot records to a JSONL file.
type JsonlStorage struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path, now: time.Now}
}

// PutProjects appends one line per project.
func (s *JsonlStorage) PutProjects(ctx context.Context, network string, projects []model.BuilderProject) error {
	captured := s.now().UTC().Format(time.RFC3339)
	records := make([]Record, 0, len(projects))
	for i := range projects {
		records = append(records, Record{Kind: KindProject, Network: network, CapturedAt: captured, Project: &projects[i]})
	}
	return s.append(ctx, records)
}

// PutUsers appends one line per user position.
func (s *JsonlStorage) PutUsers(ctx context.Context, network string, users []model.BuilderUser) error {
	captured := s.now().UTC().Format(time.RFC3339)
	records := make([]Record, 0, len(users))
	for i := range users {
		records = append(records, Record{Kind: KindUser, Network: network, CapturedAt: captured, User: &users[i]})
	}
	return s.append(ctx, records)
}

func (s *JsonlStorage) append(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal %s record: %w", record.Kind, err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write %s record: %w", record.Kind, err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
