package postgre

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"telegram-ai-relay/internal/chat/repository"
	"telegram-ai-relay/pkg/log"
)

// Dialect selects the SQL flavour of the underlying database.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type implRepository struct {
	db      *sql.DB
	l       log.Logger
	dialect Dialect
}

// New creates a database/sql backed Repository for the chat domain.
// Postgres (lib/pq) and SQLite (modernc.org/sqlite) share one set of queries.
func New(db *sql.DB, l log.Logger, dialect Dialect) repository.Repository {
	if db == nil {
		panic("chat/repository/postgre: db is required")
	}
	if dialect == "" {
		dialect = DialectPostgres
	}
	return &implRepository{db: db, l: l, dialect: dialect}
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("chat/repository/postgre.%s", method)
}

// q rewrites ? placeholders to $N for Postgres.
func (r *implRepository) q(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
