// Package history keeps a SQLite record of every finished download.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
)

// DBFileName is the database file inside the data directory
const DBFileName = "history.db"

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the download history
type Store struct {
	db *sqlx.DB
}

// recordRow maps the downloads table
type recordRow struct {
	ID         int64  `db:"id"`
	JobID      string `db:"job_id"`
	Link       string `db:"link"`
	Title      string `db:"title"`
	Collection string `db:"collection"`
	Path       string `db:"path"`
	Bytes      int64  `db:"bytes"`
	AudioOnly  bool   `db:"audio_only"`
	Quality    string `db:"quality"`
	FinishedAt int64  `db:"finished_at"`
}

// Open opens (creating if needed) the history database in dataDir and migrates it
func Open(dataDir string) (*Store, error) {
	if err := platform.CreateDirectoryIfNotExists(dataDir); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	sqlDB, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single writer
	sqlDB.SetMaxOpenConns(1)

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: sqlx.NewDb(sqlDB, DriverName)}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, DriverName, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Record inserts one finished download
func (s *Store) Record(ctx context.Context, rec model.DownloadRecord) error {
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	query := `
		INSERT INTO downloads (job_id, link, title, collection, path, bytes, audio_only, quality, finished_at)
		VALUES (:job_id, :link, :title, :collection, :path, :bytes, :audio_only, :quality, :finished_at)
	`
	_, err := s.db.NamedExecContext(ctx, query, recordRow{
		JobID:      rec.JobID,
		Link:       rec.Link,
		Title:      rec.Title,
		Collection: rec.Collection,
		Path:       rec.Path,
		Bytes:      rec.Bytes,
		AudioOnly:  rec.AudioOnly,
		Quality:    string(rec.Quality),
		FinishedAt: finished.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]model.DownloadRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []recordRow
	query := `SELECT * FROM downloads ORDER BY finished_at DESC, id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("select downloads: %w", err)
	}

	records := make([]model.DownloadRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records, nil
}

// Count returns the number of recorded downloads
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM downloads`); err != nil {
		return 0, fmt.Errorf("count downloads: %w", err)
	}
	return n, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (r recordRow) toModel() model.DownloadRecord {
	return model.DownloadRecord{
		JobID:      r.JobID,
		Link:       r.Link,
		Title:      r.Title,
		Collection: r.Collection,
		Path:       r.Path,
		Bytes:      r.Bytes,
		AudioOnly:  r.AudioOnly,
		Quality:    model.Quality(r.Quality),
		FinishedAt: time.UnixMilli(r.FinishedAt),
	}
}
