// Package settings persists the rider's configuration in a single-row
// SQLite table and validates every write before it is applied.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver

	"github.com/awaikar-syr/departby/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	walk_time_minutes INTEGER NOT NULL,
	station_id TEXT NOT NULL,
	route_id TEXT NOT NULL,
	direction_id INTEGER NOT NULL
);
`

// ValidationError reports a rejected settings update with the offending
// field. The stored settings are untouched when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid settings: %s %s", e.Field, e.Message)
}

// Store owns the settings row. Revision increases on every applied write;
// the feed manager compares revisions to discard responses fetched under
// settings that have since changed.
type Store struct {
	db       *sql.DB
	validate *validator.Validate
	revision atomic.Int64
}

// Open opens (creating if needed) the settings database at path. Use
// ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings schema: %w", err)
	}

	validate := validator.New()
	// Report failures against the JSON field names clients actually send.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Store{db: db, validate: validate}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Revision returns the current settings revision.
func (s *Store) Revision() int64 {
	return s.revision.Load()
}

// Get reads the settings row, inserting defaults on first use.
func (s *Store) Get(ctx context.Context) (models.Settings, error) {
	var out models.Settings
	row := s.db.QueryRowContext(ctx,
		`SELECT walk_time_minutes, station_id, route_id, direction_id FROM settings WHERE id = 1`)
	err := row.Scan(&out.WalkTimeMinutes, &out.StationID, &out.RouteID, &out.DirectionID)
	if errors.Is(err, sql.ErrNoRows) {
		out = models.DefaultSettings()
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO settings (id, walk_time_minutes, station_id, route_id, direction_id) VALUES (1, ?, ?, ?, ?)`,
			out.WalkTimeMinutes, out.StationID, out.RouteID, out.DirectionID)
		if err != nil {
			return models.Settings{}, fmt.Errorf("inserting default settings: %w", err)
		}
		return out, nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	return out, nil
}

// Update applies a partial update. The merged record is validated before
// anything is written; a failed validation leaves the store unchanged and
// returns a field-level *ValidationError.
func (s *Store) Update(ctx context.Context, req models.UpdateSettingsRequest) (models.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	merged := req.Apply(current)
	if err := s.validate.Struct(merged); err != nil {
		return models.Settings{}, asValidationError(err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE settings SET walk_time_minutes = ?, station_id = ?, route_id = ?, direction_id = ? WHERE id = 1`,
		merged.WalkTimeMinutes, merged.StationID, merged.RouteID, merged.DirectionID)
	if err != nil {
		return models.Settings{}, fmt.Errorf("writing settings: %w", err)
	}

	s.revision.Add(1)
	return merged, nil
}

// asValidationError converts the first validator failure into a
// field-level message using the struct's JSON field names.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()

	var msg string
	switch fe.Tag() {
	case "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		msg = fmt.Sprintf("must be at most %s", fe.Param())
	case "required":
		msg = "must not be empty"
	default:
		msg = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return &ValidationError{Field: field, Message: msg}
}
