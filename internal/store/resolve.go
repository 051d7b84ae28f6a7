package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// Resolve returns the program stored under name. The builtin program set
// is written before the first lookup, so "default" and "deluxe" resolve
// against a fresh database. Unknown names fail with TRANSFORM_NOT_FOUND;
// driver failures fail with STORE_ERROR.
func (s *Store) Resolve(ctx context.Context, name string) (ProgramSource, error) {
	if err := s.bootstrap(ctx); err != nil {
		return ProgramSource{}, err
	}

	var src ProgramSource
	err := s.db.QueryRowContext(ctx, `
		SELECT path, name, media_type, body
		FROM programs
		WHERE name = ?
	`, name).Scan(&src.Path, &src.Name, &src.MediaType, &src.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return ProgramSource{}, transform.NewNotFoundError(name)
	}
	if err != nil {
		return ProgramSource{}, transform.NewStoreError("read program", err)
	}

	return src, nil
}

// Put stores or replaces a named program.
func (s *Store) Put(ctx context.Context, name, mediaType, body string) error {
	if err := s.bootstrap(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO programs (path, name, media_type, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			media_type = excluded.media_type,
			body = excluded.body
	`, programPath(name), name, mediaType, body)
	if err != nil {
		return transform.NewStoreError("write program", err)
	}

	slog.Debug("program stored", "name", name, "media_type", mediaType)
	return nil
}

// Delete removes a named program. Deleting an unknown name fails with
// TRANSFORM_NOT_FOUND, matching Resolve.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.bootstrap(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM programs WHERE name = ?`, name)
	if err != nil {
		return transform.NewStoreError("delete program", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return transform.NewStoreError("delete program", err)
	}
	if affected == 0 {
		return transform.NewNotFoundError(name)
	}
	return nil
}

// List returns every stored program ordered by name.
// BINARY collation keeps the order stable across locales.
func (s *Store) List(ctx context.Context) ([]ProgramSource, error) {
	if err := s.bootstrap(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, name, media_type, body
		FROM programs
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, transform.NewStoreError("list programs", err)
	}
	defer rows.Close()

	var programs []ProgramSource
	for rows.Next() {
		var src ProgramSource
		if err := rows.Scan(&src.Path, &src.Name, &src.MediaType, &src.Body); err != nil {
			return nil, transform.NewStoreError("scan program", err)
		}
		programs = append(programs, src)
	}
	if err := rows.Err(); err != nil {
		return nil, transform.NewStoreError("list programs", err)
	}

	return programs, nil
}

// bootstrap writes the seed programs once per Store. The insert is keyed
// by path with ON CONFLICT DO NOTHING, so concurrent first resolves and
// reopened databases end up with exactly one body per builtin program and
// operator overrides written via Put survive a restart.
//
// Only success is latched. A failed attempt (canceled context, lock
// contention) leaves the store usable and the next call retries; the
// idempotent insert makes a partial earlier attempt harmless.
func (s *Store) bootstrap(ctx context.Context) error {
	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()
	if s.seeded {
		return nil
	}

	for _, seed := range s.seeds {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO programs (path, name, media_type, body)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(path) DO NOTHING
		`, seed.Path, seed.Name, seed.MediaType, seed.Body)
		if err != nil {
			return transform.NewStoreError("bootstrap programs", err)
		}
		slog.Debug("program seeded", "name", seed.Name, "path", seed.Path)
	}

	s.seeded = true
	return nil
}
