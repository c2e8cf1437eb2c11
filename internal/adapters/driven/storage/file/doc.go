// Package file provides filesystem implementations of the driven stores
// that operate on a workspace directory: notebooks and their backups,
// execution logs, sample datasets and report artifacts.
//
// All paths are resolved against the workspace root given to each
// constructor unless they are already absolute.
package file
