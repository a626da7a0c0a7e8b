package storage

import (
	"database/sql"
	"embed"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/cache"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MySQL persists cache entries in a row-capped table so the terminal survives
// restarts with a warm catalog.
type MySQL struct {
	db      *sqlx.DB
	maxRows int
}

// NewMySQL connects, applies migrations and returns a backend holding at most
// maxRows rows; zero means unbounded.
func NewMySQL(dsn string, maxRows int) (*MySQL, error) {
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect cache storage")
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &MySQL{db: db, maxRows: maxRows}, nil
}

func runMigrations(db *sqlx.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}
	driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "prepare migrations")
	}
	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

type entryRow struct {
	Key       string `db:"cache_key"`
	Data      []byte `db:"data"`
	Timestamp int64  `db:"created_at_ns"`
	TTL       int64  `db:"ttl_ns"`
}

func (r entryRow) toEntry() cache.Entry {
	return cache.Entry{
		Key:       r.Key,
		Data:      r.Data,
		Timestamp: time.Unix(0, r.Timestamp),
		TTL:       time.Duration(r.TTL),
	}
}

func (m *MySQL) Get(key string) (cache.Entry, bool, error) {
	var row entryRow
	err := m.db.Get(&row, `SELECT cache_key, data, created_at_ns, ttl_ns FROM cache_entries WHERE cache_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, errors.Wrap(err, "read cache entry")
	}
	return row.toEntry(), true, nil
}

func (m *MySQL) Put(entry cache.Entry) error {
	if m.maxRows > 0 {
		var count int
		err := m.db.Get(&count, `SELECT COUNT(*) FROM cache_entries WHERE cache_key <> ?`, entry.Key)
		if err != nil {
			return errors.Wrap(err, "count cache entries")
		}
		if count >= m.maxRows {
			return cache.ErrStoreFull
		}
	}
	_, err := m.db.Exec(`
		INSERT INTO cache_entries (cache_key, data, created_at_ns, ttl_ns)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data), created_at_ns = VALUES(created_at_ns), ttl_ns = VALUES(ttl_ns)`,
		entry.Key, entry.Data, entry.Timestamp.UnixNano(), int64(entry.TTL))
	return errors.Wrap(err, "write cache entry")
}

func (m *MySQL) Delete(key string) error {
	_, err := m.db.Exec(`DELETE FROM cache_entries WHERE cache_key = ?`, key)
	return errors.Wrap(err, "delete cache entry")
}

func (m *MySQL) Entries() ([]cache.Entry, error) {
	var rows []entryRow
	if err := m.db.Select(&rows, `SELECT cache_key, data, created_at_ns, ttl_ns FROM cache_entries`); err != nil {
		return nil, errors.Wrap(err, "list cache entries")
	}
	entries := make([]cache.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}
