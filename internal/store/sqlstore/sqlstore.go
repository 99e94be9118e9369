// Package sqlstore implements store.CollectionStore on database/sql.
//
// Two dialects are supported: SQLite through the pure-Go modernc.org/sqlite
// driver, and MySQL through github.com/go-sql-driver/mysql. The albums table
// is created on Open when it does not exist.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	ioutils "github.com/handiism/album-ratings/internal/io"
	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/store"
)

// Dialect selects the SQL driver and schema.
type Dialect string

const (
	SQLite Dialect = "sqlite"
	MySQL  Dialect = "mysql"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store keeps the collection in one SQL table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

var _ store.CollectionStore = (*Store)(nil)

// Open connects to dsn and makes sure table exists.
//
// For SQLite, dsn is a file path; its directory is created if needed. For
// MySQL, dsn uses the go-sql-driver format, e.g.
// "user:pass@tcp(localhost:3306)/music".
func Open(ctx context.Context, dialect Dialect, dsn, table string) (*Store, error) {
	if table == "" {
		table = "albums"
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("sqlstore: invalid table name %q", table)
	}

	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case SQLite:
		db, err = openSQLite(dsn)
	case MySQL:
		db, err = openMySQL(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, dialect: dialect, table: table}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlstore: sqlite path is required")
	}
	if path != ":memory:" {
		if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers on file databases.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: set busy_timeout: %w", err)
	}
	return db, nil
}

func openMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: parse mysql dsn: %w", err)
	}
	// Report matched rows rather than changed rows, so an UPDATE that writes
	// identical values is not mistaken for a missing album.
	cfg.ClientFoundRows = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

func (s *Store) migrate(ctx context.Context) error {
	var ddl string
	switch s.dialect {
	case SQLite:
		ddl = `
		CREATE TABLE IF NOT EXISTS %s (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			cover  TEXT    NOT NULL DEFAULT '',
			title  TEXT    NOT NULL,
			artist TEXT    NOT NULL,
			review TEXT    NOT NULL DEFAULT '',
			rating INTEGER NOT NULL DEFAULT 0
		)`
	case MySQL:
		ddl = `
		CREATE TABLE IF NOT EXISTS %s (
			id     BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
			cover  TEXT         NOT NULL,
			title  VARCHAR(512) NOT NULL,
			artist VARCHAR(512) NOT NULL,
			review TEXT         NOT NULL,
			rating TINYINT      NOT NULL DEFAULT 0
		) CHARACTER SET utf8mb4`
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(ddl, s.table)); err != nil {
		return fmt.Errorf("sqlstore: create table %s: %w", s.table, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every album ordered by id.
func (s *Store) List(ctx context.Context) ([]model.Album, error) {
	query := fmt.Sprintf(`
		SELECT id, cover, title, artist, review, rating
		FROM %s
		ORDER BY id ASC
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		var a model.Album
		if err := rows.Scan(&a.ID, &a.Cover, &a.Title, &a.Artist, &a.Review, &a.Rating); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// Insert adds a row. The database assigns the id.
func (s *Store) Insert(ctx context.Context, candidate model.Fields) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (cover, title, artist, review, rating)
		VALUES (?, ?, ?, ?, ?)
	`, s.table)

	_, err := s.db.ExecContext(ctx, query,
		candidate.Cover,
		candidate.Title,
		candidate.Artist,
		candidate.Review,
		candidate.Rating,
	)
	return err
}

// Update overwrites every editable column of the row with id.
func (s *Store) Update(ctx context.Context, id int64, fields model.Fields) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET cover = ?, title = ?, artist = ?, review = ?, rating = ?
		WHERE id = ?
	`, s.table)

	res, err := s.db.ExecContext(ctx, query,
		fields.Cover,
		fields.Title,
		fields.Artist,
		fields.Review,
		fields.Rating,
		id,
	)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes the row with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// String describes the store for log lines. The DSN is left out since it
// may carry credentials.
func (s *Store) String() string {
	return fmt.Sprintf("%s table %s", s.dialect, s.table)
}
