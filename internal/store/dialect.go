package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// DatabaseFile is the SQLite database file created inside Config.DataDir.
const DatabaseFile = "agora.db"

// dialect captures the differences between the SQL engines. Queries are
// written once with ? placeholders and rebound per engine.
type dialect struct {
	name       string
	driver     string
	numbered   bool   // $1, $2, ... placeholders
	lockClause string // appended when reading a scope counter

	// snapshotLevel is the isolation that makes several statements in one
	// transaction see the same data. SQLite transactions already do.
	snapshotLevel sql.IsolationLevel
}

var (
	sqliteDialect   = dialect{name: types.BackendSQLite, driver: "sqlite"}
	postgresDialect = dialect{
		name:          types.BackendPostgres,
		driver:        "pgx",
		numbered:      true,
		lockClause:    " FOR UPDATE",
		snapshotLevel: sql.LevelRepeatableRead,
	}
)

func dialectFor(backend string) (dialect, error) {
	switch backend {
	case types.BackendSQLite:
		return sqliteDialect, nil
	case types.BackendPostgres:
		return postgresDialect, nil
	default:
		return dialect{}, types.ErrBackendUnknown
	}
}

// rebind rewrites ? placeholders for engines that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

// forUpdate makes query lock the rows it reads until the transaction ends.
// SQLite transactions already hold the database write lock from BEGIN.
func (d dialect) forUpdate(query string) string {
	return query + d.lockClause
}

func (d dialect) open(ctx context.Context, config types.Config) (*sql.DB, error) {
	switch d.name {
	case types.BackendSQLite:
		return openSQLite(ctx, config.DataDir)
	case types.BackendPostgres:
		return openPostgres(ctx, config.DSN)
	default:
		return nil, types.ErrBackendUnknown
	}
}

// openSQLite opens (or creates) DataDir/agora.db. Transactions begin
// IMMEDIATE so that the write lock is taken before any counter is read.
func openSQLite(ctx context.Context, dataDir string) (*sql.DB, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	path := filepath.ToSlash(filepath.Join(dataDir, DatabaseFile))
	dsn := "file:" + path + "?_txlock=immediate" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)"

	db, err := sql.Open(sqliteDialect.driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(20)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}
