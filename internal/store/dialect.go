package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dialect identifies the SQL backend behind a store.
type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

// parseDatabaseURL maps a configured database URL to a driver dialect
// and the DSN understood by that driver.
//
//	""                      -> sqlite, to-do.db
//	"to-do.db", "file:x.db" -> sqlite, unchanged
//	"sqlite:///path/x.db"   -> sqlite, path/x.db
//	"postgres://..."        -> postgres, unchanged
func parseDatabaseURL(url string) (dialect, string) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return dialectSQLite, "to-do.db"
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return dialectPostgres, url
	case strings.HasPrefix(url, "sqlite:///"):
		return dialectSQLite, strings.TrimPrefix(url, "sqlite:///")
	case strings.HasPrefix(url, "sqlite://"):
		return dialectSQLite, strings.TrimPrefix(url, "sqlite://")
	default:
		return dialectSQLite, url
	}
}

// sqlitePragmas are applied by the driver to every new connection.
var sqlitePragmas = []string{"foreign_keys(1)", "journal_mode(WAL)", "busy_timeout(5000)"}

// sqliteDSN appends the connection pragmas to a SQLite path or file: URI.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(path)
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// isUniqueViolation reports whether err is a unique or primary key
// constraint failure from either supported driver.
func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
