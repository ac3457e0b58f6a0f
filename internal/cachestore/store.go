// Package cachestore persists compile-result cache Entry records in a
// sqlite database, grounded on server/dao/sqlite's connection-setup and
// prepared-statement idiom, so a restarted dpserver process can answer a
// repeat compile request without immediately recompiling from scratch.
package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"modernc.org/sqlite"

	"github.com/dekarrin/dpc/internal/dpcerrors"
)

// Store is a sqlite-backed Entry cache keyed by canonical source URI.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens a sqlite database under dir named
// "cache.db", matching the teacher's one-database-per-concern layout
// (server/dao/sqlite.NewDatastore splits users/worlds into separate
// files; this module has exactly one cached concern, so one file).
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, "cache.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st := &Store{db: db}
	if _, err := st.db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		uri TEXT NOT NULL PRIMARY KEY,
		data BLOB NOT NULL
	);`); err != nil {
		db.Close()
		return nil, wrapDBError(err)
	}

	return st, nil
}

// Put upserts the Entry for uri.
func (s *Store) Put(ctx context.Context, uri string, e Entry) error {
	data, _ := e.MarshalBinary()

	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO cache_entries (uri, data) VALUES (?, ?)
		ON CONFLICT(uri) DO UPDATE SET data = excluded.data`)
	if err != nil {
		return wrapDBError(err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, uri, data); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Get returns the persisted Entry for uri, if any.
func (s *Store) Get(ctx context.Context, uri string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM cache_entries WHERE uri = ?`, uri)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, wrapDBError(err)
	}

	var e Entry
	if err := e.UnmarshalBinary(data); err != nil {
		return Entry{}, false, dpcerrors.New("cannot decode cached entry for "+uri, err)
	}
	return e, true, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return dpcerrors.New(fmt.Sprintf("sqlite error code %d", sqliteErr.Code()), err)
	}
	return dpcerrors.New("cache store I/O failure", err, dpcerrors.ErrCacheUnavailable)
}
