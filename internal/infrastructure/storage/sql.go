package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/foodanalyzer/backend/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver names an analysis storage backend
type Driver string

// Supported storage drivers
const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a database for driver and ensures the schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:foodanalyzer.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/foodanalyzer?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: schema: %v", domain.ErrStorageFailure, err)
	}

	log.Printf("[Storage] Opened %s database", driver)
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  barcode TEXT NOT NULL,
  analysis_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_barcode ON analyses (barcode, created_at);

CREATE TABLE IF NOT EXISTS scan_history (
  id TEXT PRIMARY KEY,
  barcode TEXT NOT NULL,
  product_name TEXT NOT NULL,
  nutrition_score REAL NOT NULL,
  diabetic_score REAL NOT NULL,
  processing_level TEXT NOT NULL,
  scanned_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_history_scanned_at ON scan_history (scanned_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  barcode TEXT NOT NULL,
  analysis_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_barcode ON analyses (barcode, created_at);

CREATE TABLE IF NOT EXISTS scan_history (
  id TEXT PRIMARY KEY,
  barcode TEXT NOT NULL,
  product_name TEXT NOT NULL,
  nutrition_score DOUBLE PRECISION NOT NULL,
  diabetic_score DOUBLE PRECISION NOT NULL,
  processing_level TEXT NOT NULL,
  scanned_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_history_scanned_at ON scan_history (scanned_at);
`

// SQLStore persists analyses in a SQLite or Postgres database.
// Full analyses are stored as JSON; history rows are flat columns.
type SQLStore struct {
	db     *sql.DB
	driver Driver
}

// NewSQLStore wraps an open database whose schema was prepared by Open
func NewSQLStore(db *sql.DB, driver Driver) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) SaveAnalysis(ctx context.Context, a *domain.ProductAnalysis) error {
	aj, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("%w: encode analysis: %v", domain.ErrStorageFailure, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO analyses (id,barcode,analysis_json,created_at)
		VALUES ($1,$2,$3,$4)`,
		a.ID, a.Barcode, string(aj), a.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

func (s *SQLStore) FindLatestByBarcode(ctx context.Context, barcode string) (*domain.ProductAnalysis, error) {
	row := s.db.QueryRowContext(ctx, `SELECT analysis_json FROM analyses WHERE barcode=$1
		ORDER BY created_at DESC LIMIT 1`, barcode)
	var aj string
	if err := row.Scan(&aj); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	var a domain.ProductAnalysis
	if err := json.Unmarshal([]byte(aj), &a); err != nil {
		return nil, fmt.Errorf("%w: decode analysis: %v", domain.ErrStorageFailure, err)
	}
	return &a, nil
}

func (s *SQLStore) AppendHistory(ctx context.Context, e *domain.ScanHistory) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO scan_history
		(id,barcode,product_name,nutrition_score,diabetic_score,processing_level,scanned_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.Barcode, e.ProductName, e.NutritionScore, e.DiabeticScore,
		string(e.ProcessingLevel), e.ScannedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// ListHistory returns up to limit entries, newest first
func (s *SQLStore) ListHistory(ctx context.Context, limit int) ([]domain.ScanHistory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,barcode,product_name,nutrition_score,diabetic_score,processing_level,scanned_at
		FROM scan_history ORDER BY scanned_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	out := []domain.ScanHistory{}
	for rows.Next() {
		var (
			e       domain.ScanHistory
			level   string
			scanned int64
		)
		if err := rows.Scan(&e.ID, &e.Barcode, &e.ProductName, &e.NutritionScore,
			&e.DiabeticScore, &level, &scanned); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
		}
		e.ProcessingLevel = domain.ProcessingLevel(level)
		e.ScannedAt = time.Unix(0, scanned).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return out, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
