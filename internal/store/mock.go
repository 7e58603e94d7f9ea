package store

import (
	"context"
	"sync"

	"fjacquet/budget-csv/internal/models"
)

// MockBackend is an in-memory Backend for tests. Set the *Error fields to make the
// matching call fail.
type MockBackend struct {
	mu    sync.Mutex
	State LedgerState
	Rules []models.CategoryRule

	// Error flags for testing error conditions
	LoadLedgerError error
	SaveLedgerError error
	LoadRulesError  error
	SaveRulesError  error

	SaveLedgerCalls int
	SaveRulesCalls  int
	Closed          bool
}

// NewMockBackend returns an empty mock backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name identifies the backend in logs.
func (m *MockBackend) Name() string { return "mock" }

// LoadLedger returns a copy of the stored state.
func (m *MockBackend) LoadLedger(ctx context.Context) (LedgerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadLedgerError != nil {
		return LedgerState{}, m.LoadLedgerError
	}
	return m.State.Clone(), nil
}

// SaveLedger stores a copy of state.
func (m *MockBackend) SaveLedger(ctx context.Context, state LedgerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveLedgerCalls++
	if m.SaveLedgerError != nil {
		return m.SaveLedgerError
	}
	m.State = state.Clone()
	return nil
}

// LoadRules returns a copy of the stored rules.
func (m *MockBackend) LoadRules(ctx context.Context) ([]models.CategoryRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadRulesError != nil {
		return nil, m.LoadRulesError
	}
	return append([]models.CategoryRule(nil), m.Rules...), nil
}

// SaveRules stores a copy of rules.
func (m *MockBackend) SaveRules(ctx context.Context, rules []models.CategoryRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRulesCalls++
	if m.SaveRulesError != nil {
		return m.SaveRulesError
	}
	m.Rules = append([]models.CategoryRule(nil), rules...)
	return nil
}

// Close marks the backend closed.
func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
