// Package rewrite standardizes a notebook's cell sequence.
//
// A Pipeline applies an ordered list of Rules to a shared State. The
// default pipeline preserves the header, replaces the first import cell
// with the canonical imports cell, ensures a tracking cell, then walks the
// remaining cells dropping legacy cells and substituting the canonical
// data-loading cell for hand-written fetch code.
//
// The package is pure: it performs no I/O. Backups and persistence live
// in the standardize service.
//
// # Import Rules
//
//   - Can Import: domain package, logger
//   - Cannot Import: services, adapters
package rewrite
