package store

import (
	"time"

	"github.com/huangsam/workload/internal/contract"
	"github.com/huangsam/workload/schema"
	"github.com/stretchr/testify/mock"
)

// MockExportStore is a mock implementation of ExportStore for testing.
type MockExportStore struct {
	mock.Mock
}

var _ contract.ExportStore = &MockExportStore{} // Compile-time check

// BeginRun implements the ExportStore interface.
func (m *MockExportStore) BeginRun(sourceName string, exportTime time.Time, stats schema.ParseStats, assignees int) (int64, error) {
	args := m.Called(sourceName, exportTime, stats, assignees)
	return args.Get(0).(int64), args.Error(1)
}

// RecordDays implements the ExportStore interface.
func (m *MockExportStore) RecordDays(runID int64, rows []schema.DayRow) error {
	args := m.Called(runID, rows)
	return args.Error(0)
}

// RecordReleases implements the ExportStore interface.
func (m *MockExportStore) RecordReleases(runID int64, releases []schema.Release) error {
	args := m.Called(runID, releases)
	return args.Error(0)
}

// RecordTasks implements the ExportStore interface.
func (m *MockExportStore) RecordTasks(runID int64, tasks []schema.TaskRecord) error {
	args := m.Called(runID, tasks)
	return args.Error(0)
}

// GetRuns implements the ExportStore interface.
func (m *MockExportStore) GetRuns() ([]schema.ExportRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ExportRunRecord)
	return runs, args.Error(1)
}

// GetStatus implements the ExportStore interface.
func (m *MockExportStore) GetStatus() (schema.ExportStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ExportStatus), args.Error(1)
}

// Close implements the ExportStore interface.
func (m *MockExportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
