package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	configfile "github.com/krlabs/kra/internal/adapters/driven/config/file"
	fetchhttp "github.com/krlabs/kra/internal/adapters/driven/fetch/http"
	"github.com/krlabs/kra/internal/adapters/driven/probe/python"
	"github.com/krlabs/kra/internal/adapters/driven/pyast"
	"github.com/krlabs/kra/internal/adapters/driven/schema"
	"github.com/krlabs/kra/internal/adapters/driven/storage/file"
	"github.com/krlabs/kra/internal/adapters/driven/storage/sqlite"
	"github.com/krlabs/kra/internal/adapters/driving/cli"
	"github.com/krlabs/kra/internal/core/services"
	"github.com/krlabs/kra/internal/logger"
)

// wire builds the services for the workspace rooted at workspace. The
// returned function closes the history database.
func wire(workspace string) (*cli.Services, func() error, error) {
	root, err := filepath.Abs(workspace)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve workspace: %w", err)
	}
	dataDir := filepath.Join(root, configfile.DefaultDir)

	configStore, err := configfile.NewConfigStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}

	schemaValidator, err := schema.NewValidator()
	if err != nil {
		return nil, nil, fmt.Errorf("load notebook schema: %w", err)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, err
	}
	history := store.RunHistoryStore()
	logger.Debug("history database: %s", store.Path())

	notebooksDir := resolve(root, settings.Paths.Notebooks)
	notebookStore := file.NewNotebookStore(notebooksDir, resolve(root, settings.Paths.Backups))

	probeConfig := python.Config{
		Interpreter: settings.Probe.Interpreter,
		Root:        root,
		Timeout:     settings.Probe.Timeout,
	}
	inspector := python.NewInspector(probeConfig)
	prober := python.NewProber(probeConfig)

	validate := services.NewValidateService(
		notebookStore,
		prober,
		inspector,
		schemaValidator,
		pyast.NewInventory(),
		history,
	)
	tracking := services.NewTrackingService(
		file.NewExecutionLogStore(resolve(root, settings.Paths.Logs)),
		inspector,
		settings.Tracking,
	)
	dataset := services.NewDatasetService(
		file.NewDatasetStore(resolve(root, settings.Paths.Samples)),
		fetchhttp.NewFetcher(&http.Client{Timeout: settings.Fetch.Timeout}),
		settingsService.DatasetSpecs(),
		settings.Fetch,
	)
	workspaceService := services.NewWorkspaceService(
		os.DirFS(root),
		filepath.ToSlash(settings.Paths.Notebooks),
		settings.Workspace.ProblematicImports,
		prober,
	)

	svc := &cli.Services{
		Standardize:  services.NewStandardizeService(notebookStore, history),
		Validate:     validate,
		Report:       services.NewReportService(file.NewReportWriter(root)),
		Tracking:     tracking,
		Dataset:      dataset,
		History:      services.NewHistoryService(history),
		Workspace:    workspaceService,
		Catalog:      services.NewCatalogService(notebookStore),
		Settings:     settingsService,
		NotebooksDir: notebooksDir,
	}
	return svc, store.Close, nil
}

// resolve makes a configured path absolute against the workspace root.
func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
