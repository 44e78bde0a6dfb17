// Package sqliteexternal provides the optional CGO SQLite driver.
//
// To use the CGO driver (github.com/mattn/go-sqlite3), build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// core/sqlite imports this package under that tag; nothing else should.
// The default build uses modernc.org/sqlite and needs no C toolchain, which
// keeps cross-compiling the reader for small devices simple.
package sqliteexternal
