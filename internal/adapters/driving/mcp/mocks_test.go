package mcp

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// mockValidateService is a mock implementation of driving.ValidateService.
type mockValidateService struct {
	result domain.ValidationResult
	called []string
}

func (m *mockValidateService) ValidateAll(_ context.Context, _ domain.ValidateOptions) (*domain.ValidationSummary, error) {
	return &domain.ValidationSummary{}, nil
}

func (m *mockValidateService) ValidateOne(_ context.Context, name string) domain.ValidationResult {
	m.called = append(m.called, name)
	r := m.result
	r.Notebook = name
	return r
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	notebooks map[string]string
	err       error
}

func (m *mockCatalogService) List(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var names []string
	for _, n := range []string{"01_income.ipynb", "02_housing.ipynb"} {
		if _, ok := m.notebooks[n]; ok {
			names = append(names, n)
		}
	}
	return names, nil
}

func (m *mockCatalogService) Read(_ context.Context, name string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.notebooks[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return []byte(data), nil
}

func (m *mockCatalogService) Metadata(_ context.Context, _ string) (domain.NotebookMetadata, error) {
	return domain.NotebookMetadata{}, m.err
}

// mockStandardizeService is a mock implementation of driving.StandardizeService.
type mockStandardizeService struct {
	dryRuns []bool
}

func (m *mockStandardizeService) StandardizeAll(
	_ context.Context,
	_ domain.StandardizeOptions,
) (*domain.StandardizationSummary, error) {
	return &domain.StandardizationSummary{}, nil
}

func (m *mockStandardizeService) StandardizeOne(_ context.Context, name string, dryRun bool) domain.RewriteResult {
	m.dryRuns = append(m.dryRuns, dryRun)
	status := domain.RewriteSuccess
	if dryRun {
		status = domain.RewriteDryRun
	}
	return domain.RewriteResult{Notebook: name, Status: status, Changes: []string{domain.ChangeAddedTracking}}
}

// mockTrackingService is a mock implementation of driving.TrackingService.
type mockTrackingService struct {
	logs      []domain.ExecutionLog
	err       error
	lastLimit int
}

func (m *mockTrackingService) Start(_ context.Context, _ domain.StartOptions) (*domain.ExecutionLog, error) {
	return nil, m.err
}

func (m *mockTrackingService) Section(_ context.Context, _, _ string, _ domain.SectionEvent) error {
	return m.err
}

func (m *mockTrackingService) AddResult(_ context.Context, _, _ string, _ any) error {
	return m.err
}

func (m *mockTrackingService) LogError(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockTrackingService) Finish(
	_ context.Context,
	_ string,
	_ map[string]any,
	_ []string,
) (*domain.ExecutionLog, error) {
	return nil, m.err
}

func (m *mockTrackingService) Get(_ context.Context, _ string) (*domain.ExecutionLog, error) {
	return nil, m.err
}

func (m *mockTrackingService) ListRecent(_ context.Context, limit int) ([]domain.ExecutionLog, error) {
	m.lastLimit = limit
	return m.logs, m.err
}

func testCatalog() *mockCatalogService {
	return &mockCatalogService{notebooks: map[string]string{
		"01_income.ipynb":  `{"cells": [], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`,
		"02_housing.ipynb": `{"cells": [], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`,
	}}
}

func fullPorts() *Ports {
	return &Ports{
		Validation:      &mockValidateService{result: domain.ValidationResult{Overall: domain.OverallPass}},
		Catalog:         testCatalog(),
		Standardization: &mockStandardizeService{},
		Tracking:        &mockTrackingService{},
	}
}
