package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dochub-api/internal/pdf"
	"github.com/dochub-api/internal/service"
)

// MockHealthChecker reports Err as the store status and Pool as its statistics
type MockHealthChecker struct {
	Err  error
	Pool sql.DBStats
}

// Verify interface compliance
var _ service.HealthChecker = (*MockHealthChecker)(nil)

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}

func (m *MockHealthChecker) Stats() sql.DBStats {
	return m.Pool
}

// MockPDFRenderer records render requests and returns canned output
type MockPDFRenderer struct {
	mu   sync.Mutex
	Data []byte
	Err  error
	Docs []pdf.Document
}

// Verify interface compliance
var _ service.PDFRenderer = (*MockPDFRenderer)(nil)

func NewMockPDFRenderer() *MockPDFRenderer {
	return &MockPDFRenderer{Data: []byte("%PDF-1.4 mock")}
}

func (m *MockPDFRenderer) Render(ctx context.Context, doc pdf.Document) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Docs = append(m.Docs, doc)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}
