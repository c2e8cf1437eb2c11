// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration
//   - NotebookStore: Notebook enumeration, reads, writes and backups
//   - ImportProber: Isolated import-resolution probe
//   - ExecutionLogStore: Execution log persistence
//   - DatasetStore: Sample dataset files and manifest
//   - ReportWriter: Report artifacts
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SchemaValidator: nbformat schema notes. Without it, no schema notes are reported.
//   - ImportInventory: Imported module listing. Without it, the list is empty.
//   - EnvironmentInspector: Interpreter snapshot. Without it, the Go runtime platform is recorded.
//   - DatasetFetcher: Remote dataset fetching. Without it, only samples are used.
//   - RunHistoryStore: Batch run history. Without it, runs are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
