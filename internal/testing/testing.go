// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/reelx/internal/models"
)

// MemoryKV is an in-memory string store satisfying storage.KV.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) GetString(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Contains(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok, nil
}

func (m *MemoryKV) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// FailingKV returns Err from every operation listed in FailOn, or from all of them when FailOn is empty.
// Operations that do not fail are delegated to an internal [MemoryKV].
type FailingKV struct {
	Err    error
	FailOn []string

	once  sync.Once
	inner *MemoryKV
}

func (f *FailingKV) fails(op string) bool {
	if len(f.FailOn) == 0 {
		return true
	}
	for _, o := range f.FailOn {
		if o == op {
			return true
		}
	}
	return false
}

func (f *FailingKV) mem() *MemoryKV {
	f.once.Do(func() { f.inner = NewMemoryKV() })
	return f.inner
}

func (f *FailingKV) GetString(key string) (string, bool, error) {
	if f.fails("get") {
		return "", false, f.Err
	}
	return f.mem().GetString(key)
}

func (f *FailingKV) Set(key, value string) error {
	if f.fails("set") {
		return f.Err
	}
	return f.mem().Set(key, value)
}

func (f *FailingKV) Delete(key string) error {
	if f.fails("delete") {
		return f.Err
	}
	return f.mem().Delete(key)
}

func (f *FailingKV) Contains(key string) (bool, error) {
	if f.fails("contains") {
		return false, f.Err
	}
	return f.mem().Contains(key)
}

func (f *FailingKV) ClearAll() error {
	if f.fails("clear") {
		return f.Err
	}
	return f.mem().ClearAll()
}

// MockFavoriteService is a test double for services.FavoriteService.
//
// When Gate is non-nil, AddFavorite and RemoveFavorite block until it is closed or receives,
// which lets tests observe in-flight state.
type MockFavoriteService struct {
	AddErr    error
	RemoveErr error
	CheckErr  error
	ListErr   error

	Status    models.FavoriteStatus
	Favorites []models.Favorite
	Gate      chan struct{}

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFavoriteService) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls returns how many times op ("add", "remove", "check", "list") was invoked.
func (m *MockFavoriteService) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockFavoriteService) wait(ctx context.Context) error {
	if m.Gate == nil {
		return nil
	}
	select {
	case <-m.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockFavoriteService) AddFavorite(ctx context.Context, movieID int) error {
	m.record("add")
	if err := m.wait(ctx); err != nil {
		return err
	}
	return m.AddErr
}

func (m *MockFavoriteService) RemoveFavorite(ctx context.Context, movieID int) error {
	m.record("remove")
	if err := m.wait(ctx); err != nil {
		return err
	}
	return m.RemoveErr
}

func (m *MockFavoriteService) CheckFavorite(ctx context.Context, movieID int) (*models.FavoriteStatus, error) {
	m.record("check")
	if m.CheckErr != nil {
		return nil, m.CheckErr
	}
	status := m.Status
	return &status, nil
}

func (m *MockFavoriteService) FavoritesList(ctx context.Context) ([]models.Favorite, error) {
	m.record("list")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Favorite(nil), m.Favorites...), nil
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

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
