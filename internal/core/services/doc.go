// Package services implements the driving port interfaces.
// Services hold the batch drivers and orchestrate calls to driven
// ports (adapters). Notebook transformation itself lives in the pure
// rewrite and notebook packages; services only sequence I/O around it.
//
// Per-notebook failures are turned into ERROR results. A service
// returns an error only when the batch as a whole cannot proceed.
package services
