//go:build !cgo_sqlite

package db

import (
	_ "modernc.org/sqlite"
)

// sqliteDriver is the pure Go driver. Build with -tags cgo_sqlite to compare
// against the CGO driver instead.
const sqliteDriver = "sqlite"
