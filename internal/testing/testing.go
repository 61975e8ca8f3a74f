// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/ytsheet/internal/models"
)

// MockStore is an in-memory [services.RowStore] that applies deletions the way a spreadsheet does.
type MockStore struct {
	mu        sync.Mutex
	rows      []models.Row
	FetchErr  error
	DeleteErr error
	Deletes   [][]models.Range // every DeleteRanges call, in order
}

// NewMockStore creates a store holding rows built from cells, positioned from 0.
func NewMockStore(cells ...[]string) *MockStore {
	rows := make([]models.Row, len(cells))
	for i, c := range cells {
		rows[i] = models.NewRow(i, c)
	}
	return &MockStore{rows: rows}
}

func (m *MockStore) Name() string { return "mock" }

func (m *MockStore) Fetch(ctx context.Context) ([]models.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	out := make([]models.Row, len(m.rows))
	for i, r := range m.rows {
		r.Position = i
		out[i] = r
	}
	return out, nil
}

// DeleteRanges removes each range in order, closing the gap before the next range is applied.
func (m *MockStore) DeleteRanges(ctx context.Context, ranges []models.Range) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, slices.Clone(ranges))
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for _, r := range ranges {
		if r.Start < 0 || r.End > len(m.rows) || r.Start >= r.End {
			return fmt.Errorf("range %s out of bounds for %d rows", r, len(m.rows))
		}
		m.rows = slices.Delete(m.rows, r.Start, r.End)
	}
	return nil
}

// Titles returns the titles of the rows still in the store.
func (m *MockStore) Titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles := make([]string, len(m.rows))
	for i, r := range m.rows {
		titles[i] = r.Title
	}
	return titles
}

// MockMedia implements every media collaborator. Steps fail for rows whose locator is in the matching map.
//
// Acquire and Transcode write real files so cleanup can be observed.
type MockMedia struct {
	mu             sync.Mutex
	FailAcquire    map[string]error
	FailTranscode  map[string]error
	FailTag        map[string]error
	FailImport     map[string]error
	Imported       []string
	locatorForPath map[string]string
}

func NewMockMedia() *MockMedia {
	return &MockMedia{
		FailAcquire:    map[string]error{},
		FailTranscode:  map[string]error{},
		FailTag:        map[string]error{},
		FailImport:     map[string]error{},
		locatorForPath: map[string]string{},
	}
}

func (m *MockMedia) Acquire(ctx context.Context, locator, dir string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailAcquire[locator]; err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(locator)+".webm")
	if err := os.WriteFile(path, []byte(locator), 0644); err != nil {
		return "", err
	}
	m.locatorForPath[path] = locator
	return path, nil
}

func (m *MockMedia) Transcode(ctx context.Context, in, out, bitrate string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	locator := m.locatorForPath[in]
	if err := m.FailTranscode[locator]; err != nil {
		return "", err
	}
	if err := os.WriteFile(out, []byte(bitrate), 0644); err != nil {
		return "", err
	}
	m.locatorForPath[out] = locator
	return out, nil
}

func (m *MockMedia) ApplyTags(path string, tags models.Tags) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FailTag[m.locatorForPath[path]]
}

func (m *MockMedia) ImportAndRelease(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailImport[m.locatorForPath[path]]; err != nil {
		return err
	}
	m.Imported = append(m.Imported, path)
	return nil
}

// MockRecorder keeps run history in memory.
type MockRecorder struct {
	mu       sync.Mutex
	Runs     map[string]*models.Run
	Outcomes []*models.OutcomeRecord
	Finished int
	Err      error
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{Runs: map[string]*models.Run{}}
}

func (m *MockRecorder) CreateRun(ctx context.Context, run *models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Runs[run.ID()] = run
	return nil
}

func (m *MockRecorder) AddOutcome(ctx context.Context, record *models.OutcomeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Outcomes = append(m.Outcomes, record)
	return nil
}

func (m *MockRecorder) FinishRun(ctx context.Context, run *models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Finished++
	m.Runs[run.ID()] = run
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read directory %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Errorf("Directory %s not empty: %d entries", dir, len(entries))
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
