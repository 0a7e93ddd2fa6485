package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for price history.
const (
	priceHistoryTable = "farewatch_price_history"
	tripScansTable    = "farewatch_trip_scans"
)

const observationColumns = "id, trip_id, route, cabin_class, scanned_at, price, currency, offer_json"

// HistoryStoreImpl implements the HistoryStore interface on top of database/sql.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore opens the history store for the backend and creates its
// tables when missing. The none backend yields a store that keeps nothing.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	for _, table := range []string{priceHistoryTable, tripScansTable} {
		if err := validateTableName(table); err != nil {
			return nil, err
		}
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	for _, query := range getCreateHistoryQueries(backend) {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create history tables: %w", err)
		}
	}

	return &HistoryStoreImpl{db: db, backend: backend, driverName: driverName}, nil
}

// openDB opens a handle for the backend. It returns a nil handle for NoneBackend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse MySQL connection string: %w. Check format: user:password@tcp(host:port)/dbname", err)
		}
		cfg.ParseTime = true
		db, err := sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=farewatch
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, "pgx", nil

	case schema.NoneBackend:
		return nil, "", nil

	default:
		return nil, "", fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// getCreateHistoryQueries returns the DDL statements for the backend.
func getCreateHistoryQueries(backend schema.DatabaseBackend) []string {
	history := quoteTableName(priceHistoryTable, backend)
	scans := quoteTableName(tripScansTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					id VARCHAR(36) PRIMARY KEY,
					trip_id VARCHAR(100) NOT NULL,
					route VARCHAR(16) NOT NULL,
					cabin_class VARCHAR(32) NOT NULL,
					scanned_at DATETIME(6) NOT NULL,
					price DOUBLE NOT NULL,
					currency VARCHAR(8) NOT NULL,
					offer_json TEXT NOT NULL,
					INDEX idx_farewatch_series (trip_id, route, cabin_class, scanned_at)
				);
			`, history),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					trip_id VARCHAR(100) PRIMARY KEY,
					last_scanned DATETIME(6) NOT NULL
				);
			`, scans),
		}

	case schema.PostgreSQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					id TEXT PRIMARY KEY,
					trip_id TEXT NOT NULL,
					route TEXT NOT NULL,
					cabin_class TEXT NOT NULL,
					scanned_at TIMESTAMPTZ NOT NULL,
					price DOUBLE PRECISION NOT NULL,
					currency TEXT NOT NULL,
					offer_json TEXT NOT NULL
				);
			`, history),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_farewatch_series ON %s (trip_id, route, cabin_class, scanned_at);`, history),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					trip_id TEXT PRIMARY KEY,
					last_scanned TIMESTAMPTZ NOT NULL
				);
			`, scans),
		}

	default: // SQLite
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					id TEXT PRIMARY KEY,
					trip_id TEXT NOT NULL,
					route TEXT NOT NULL,
					cabin_class TEXT NOT NULL,
					scanned_at TEXT NOT NULL,
					price REAL NOT NULL,
					currency TEXT NOT NULL,
					offer_json TEXT NOT NULL
				);
			`, history),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_farewatch_series ON %s (trip_id, route, cabin_class, scanned_at);`, history),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					trip_id TEXT PRIMARY KEY,
					last_scanned TEXT NOT NULL
				);
			`, scans),
		}
	}
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// RecentPrices returns up to limit prices for the key, newest first.
func (hs *HistoryStoreImpl) RecentPrices(ctx context.Context, key schema.BaselineKey, limit int) ([]float64, error) {
	if hs.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf(
		"SELECT price FROM %s WHERE trip_id = %s AND route = %s AND cabin_class = %s ORDER BY scanned_at DESC LIMIT %d",
		quoteTableName(priceHistoryTable, hs.backend),
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3),
		limit,
	)
	rows, err := hs.db.QueryContext(ctx, query, key.TripID, key.Route, string(key.Cabin))
	if err != nil {
		return nil, &schema.StoreError{Op: "recent prices", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var prices []float64
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return nil, &schema.StoreError{Op: "recent prices", Err: err}
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &schema.StoreError{Op: "recent prices", Err: err}
	}
	return prices, nil
}

// AppendObservations inserts all observations in one transaction.
func (hs *HistoryStoreImpl) AppendObservations(ctx context.Context, observations []schema.PriceObservation) error {
	if hs.disabled() || len(observations) == 0 {
		return nil
	}

	tx, err := hs.db.BeginTx(ctx, nil)
	if err != nil {
		return &schema.StoreError{Op: "append", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	phs := make([]string, 8)
	for i := range phs {
		phs[i] = placeholder(hs.backend, i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(priceHistoryTable, hs.backend), observationColumns, strings.Join(phs, ", "))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return &schema.StoreError{Op: "append", Err: err}
	}
	defer func() { _ = stmt.Close() }()

	for _, obs := range observations {
		offerJSON, err := json.Marshal(obs.Offer)
		if err != nil {
			return &schema.StoreError{Op: "append", Err: fmt.Errorf("failed to encode offer %s: %w", obs.Offer.ID, err)}
		}
		if _, err := stmt.ExecContext(ctx,
			obs.ID, obs.TripID, obs.Route, string(obs.CabinClass),
			formatTime(obs.ScannedAt, hs.backend), obs.Price, obs.Currency, string(offerJSON),
		); err != nil {
			return &schema.StoreError{Op: "append", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &schema.StoreError{Op: "append", Err: err}
	}
	return nil
}

// ListObservations returns observations matching the filter, newest first.
func (hs *HistoryStoreImpl) ListObservations(ctx context.Context, filter schema.HistoryFilter) ([]schema.PriceObservation, error) {
	if hs.disabled() {
		return nil, nil
	}

	var conds []string
	var args []any
	add := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, placeholder(hs.backend, len(args))))
	}
	if filter.TripID != "" {
		add("trip_id = %s", filter.TripID)
	}
	if filter.Route != "" {
		add("route = %s", filter.Route)
	}
	if filter.Cabin != "" {
		add("cabin_class = %s", string(filter.Cabin))
	}
	if !filter.Since.IsZero() {
		add("scanned_at >= %s", formatTime(filter.Since, hs.backend))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", observationColumns, quoteTableName(priceHistoryTable, hs.backend))
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY scanned_at DESC, price ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := hs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &schema.StoreError{Op: "list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var result []schema.PriceObservation
	for rows.Next() {
		obs, err := hs.scanObservation(rows)
		if err != nil {
			return nil, &schema.StoreError{Op: "list", Err: err}
		}
		result = append(result, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, &schema.StoreError{Op: "list", Err: err}
	}
	return result, nil
}

func (hs *HistoryStoreImpl) scanObservation(rows *sql.Rows) (schema.PriceObservation, error) {
	var obs schema.PriceObservation
	var cabin, offerJSON string
	var scannedAt any
	if hs.backend == schema.SQLiteBackend {
		var s string
		scannedAt = &s
	} else {
		var t time.Time
		scannedAt = &t
	}
	if err := rows.Scan(&obs.ID, &obs.TripID, &obs.Route, &cabin, scannedAt, &obs.Price, &obs.Currency, &offerJSON); err != nil {
		return obs, err
	}

	switch v := scannedAt.(type) {
	case *string:
		t, err := parseTime(*v)
		if err != nil {
			return obs, fmt.Errorf("failed to parse scanned_at: %w", err)
		}
		obs.ScannedAt = t
	case *time.Time:
		obs.ScannedAt = v.UTC()
	}
	obs.CabinClass = schema.CabinClass(cabin)
	if err := json.Unmarshal([]byte(offerJSON), &obs.Offer); err != nil {
		return obs, fmt.Errorf("failed to decode offer for observation %s: %w", obs.ID, err)
	}
	return obs, nil
}

// LastScanned returns the last scan time for a trip and whether one exists.
func (hs *HistoryStoreImpl) LastScanned(ctx context.Context, tripID string) (time.Time, bool, error) {
	if hs.disabled() {
		return time.Time{}, false, nil
	}
	query := fmt.Sprintf("SELECT last_scanned FROM %s WHERE trip_id = %s",
		quoteTableName(tripScansTable, hs.backend), placeholder(hs.backend, 1))
	row := hs.db.QueryRowContext(ctx, query, tripID)

	var last time.Time
	var err error
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err = row.Scan(&s); err == nil {
			last, err = parseTime(s)
		}
	} else {
		err = row.Scan(&last)
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, &schema.StoreError{Op: "last scanned", Err: err}
	}
	return last.UTC(), true, nil
}

// MarkScanned stores the scan time for a trip, replacing any previous value.
func (hs *HistoryStoreImpl) MarkScanned(ctx context.Context, tripID string, at time.Time) error {
	if hs.disabled() {
		return nil
	}
	if _, err := hs.db.ExecContext(ctx, hs.getUpsertScanQuery(), tripID, formatTime(at, hs.backend)); err != nil {
		return &schema.StoreError{Op: "mark scanned", Err: err}
	}
	return nil
}

// getUpsertScanQuery returns the UPSERT query for the trip scans table.
func (hs *HistoryStoreImpl) getUpsertScanQuery() string {
	quoted := quoteTableName(tripScansTable, hs.backend)
	switch hs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (trip_id, last_scanned) VALUES (?, ?) AS new
			ON DUPLICATE KEY UPDATE last_scanned = new.last_scanned`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (trip_id, last_scanned) VALUES ($1, $2)
			ON CONFLICT (trip_id) DO UPDATE SET last_scanned = EXCLUDED.last_scanned`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (trip_id, last_scanned) VALUES (?, ?)`, quoted)
	}
}

// ListTripScans returns the last-scan record of every trip, ordered by trip id.
func (hs *HistoryStoreImpl) ListTripScans(ctx context.Context) ([]schema.TripScanRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT trip_id, last_scanned FROM %s ORDER BY trip_id", quoteTableName(tripScansTable, hs.backend))
	rows, err := hs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &schema.StoreError{Op: "list scans", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var records []schema.TripScanRecord
	for rows.Next() {
		var rec schema.TripScanRecord
		if hs.backend == schema.SQLiteBackend {
			var s string
			if err := rows.Scan(&rec.TripID, &s); err != nil {
				return nil, &schema.StoreError{Op: "list scans", Err: err}
			}
			t, err := parseTime(s)
			if err != nil {
				return nil, &schema.StoreError{Op: "list scans", Err: err}
			}
			rec.LastScanned = t
		} else if err := rows.Scan(&rec.TripID, &rec.LastScanned); err != nil {
			return nil, &schema.StoreError{Op: "list scans", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &schema.StoreError{Op: "list scans", Err: err}
	}
	return records, nil
}

// Close closes the underlying DB connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	history := quoteTableName(priceHistoryTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", history))
	if err := row.Scan(&status.TotalObservations); err != nil {
		return status, fmt.Errorf("failed to get total observations: %w", err)
	}

	row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(tripScansTable, hs.backend)))
	if err := row.Scan(&status.TrackedTrips); err != nil {
		return status, fmt.Errorf("failed to get tracked trips: %w", err)
	}

	if status.TotalObservations > 0 {
		row = hs.db.QueryRow(fmt.Sprintf("SELECT MAX(scanned_at), MIN(scanned_at) FROM %s", history))
		if hs.backend == schema.SQLiteBackend {
			var lastStr, oldestStr string
			if err := row.Scan(&lastStr, &oldestStr); err != nil {
				return status, fmt.Errorf("failed to get scan time range: %w", err)
			}
			last, err := parseTime(lastStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last scan time: %w", err)
			}
			oldest, err := parseTime(oldestStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse oldest scan time: %w", err)
			}
			status.LastScanTime, status.OldestScanTime = last, oldest
		} else if err := row.Scan(&status.LastScanTime, &status.OldestScanTime); err != nil {
			return status, fmt.Errorf("failed to get scan time range: %w", err)
		}
	}

	status.TableSizes[priceHistoryTable] = int64(status.TotalObservations)
	status.TableSizes[tripScansTable] = int64(status.TrackedTrips)
	return status, nil
}
