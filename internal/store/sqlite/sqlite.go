package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/focusroom/focusroom/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	username        TEXT NOT NULL,
	email           TEXT NOT NULL,
	timezone        TEXT NOT NULL DEFAULT 'UTC',
	profile_picture TEXT,
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS intervals (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL,
	project_id INTEGER,
	name       TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time   DATETIME,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_intervals_user ON intervals(user_id, start_time);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function after
// the schema is applied. Useful for tests to seed rows.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}
	if setup != nil {
		if err := setup(s.db); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user and returns it with its assigned id.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, timezone string, profilePicture *string) (*store.User, error) {
	query := `
		INSERT INTO users (username, email, timezone, profile_picture)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, username, email, timezone, profilePicture)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, username, email, timezone, profile_picture, created_at
		FROM users
		WHERE id = ?
	`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// GetUsersByIDs retrieves several users at once. Unknown ids are skipped.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []int64) ([]*store.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `
		SELECT id, username, email, timezone, profile_picture, created_at
		FROM users
		WHERE id IN (` + placeholders + `)
		ORDER BY id
	`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*store.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// UpdateUserTimezone updates a user's timezone setting.
func (s *SQLiteStore) UpdateUserTimezone(ctx context.Context, id int64, timezone string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET timezone = ? WHERE id = ?`, timezone, id)
	if err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}
	return requireRow(result)
}

// DeleteUser removes a user; intervals cascade via the foreign key.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(result)
}

// ==== IntervalStore implementation ====

// CreateInterval persists a new running interval.
func (s *SQLiteStore) CreateInterval(ctx context.Context, userID int64, projectID *int64, name string, start time.Time) (*store.Interval, error) {
	query := `
		INSERT INTO intervals (user_id, project_id, name, start_time)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, userID, projectID, name, start.UTC())
	if err != nil {
		return nil, fmt.Errorf("insert interval: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetInterval(ctx, id)
}

// EndInterval sets the end time of an interval.
func (s *SQLiteStore) EndInterval(ctx context.Context, id int64, end time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE intervals SET end_time = ? WHERE id = ?`, end.UTC(), id)
	if err != nil {
		return fmt.Errorf("end interval: %w", err)
	}
	return requireRow(result)
}

// UpdateInterval rewrites an interval's name, project and times.
func (s *SQLiteStore) UpdateInterval(ctx context.Context, id int64, name string, projectID *int64, start time.Time, end *time.Time) error {
	query := `
		UPDATE intervals
		SET name = ?, project_id = ?, start_time = ?, end_time = ?
		WHERE id = ?
	`
	var endArg any
	if end != nil {
		endArg = end.UTC()
	}
	result, err := s.db.ExecContext(ctx, query, name, projectID, start.UTC(), endArg, id)
	if err != nil {
		return fmt.Errorf("update interval: %w", err)
	}
	return requireRow(result)
}

// GetInterval retrieves an interval by id.
func (s *SQLiteStore) GetInterval(ctx context.Context, id int64) (*store.Interval, error) {
	query := `
		SELECT id, user_id, project_id, name, start_time, end_time
		FROM intervals
		WHERE id = ?
	`
	interval, err := scanInterval(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query interval: %w", err)
	}
	return interval, nil
}

// ListFinishedIntervals returns a user's ended intervals ordered by start time.
func (s *SQLiteStore) ListFinishedIntervals(ctx context.Context, userID int64) ([]*store.Interval, error) {
	query := `
		SELECT id, user_id, project_id, name, start_time, end_time
		FROM intervals
		WHERE user_id = ? AND end_time IS NOT NULL
		ORDER BY start_time
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query intervals: %w", err)
	}
	defer rows.Close()

	var intervals []*store.Interval
	for rows.Next() {
		interval, err := scanInterval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intervals: %w", err)
	}
	return intervals, nil
}

// GetActiveInterval returns the user's oldest still-running interval.
func (s *SQLiteStore) GetActiveInterval(ctx context.Context, userID int64) (*store.Interval, error) {
	query := `
		SELECT id, user_id, project_id, name, start_time, end_time
		FROM intervals
		WHERE user_id = ? AND end_time IS NULL
		ORDER BY start_time
		LIMIT 1
	`
	interval, err := scanInterval(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query active interval: %w", err)
	}
	return interval, nil
}

// DeleteInterval removes an interval.
func (s *SQLiteStore) DeleteInterval(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM intervals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete interval: %w", err)
	}
	return requireRow(result)
}

// ==== helpers ====

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*store.User, error) {
	var user store.User
	var profilePicture sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Timezone, &profilePicture, &user.CreatedAt); err != nil {
		return nil, err
	}
	if profilePicture.Valid {
		user.ProfilePicture = &profilePicture.String
	}
	return &user, nil
}

func scanInterval(row rowScanner) (*store.Interval, error) {
	var interval store.Interval
	var projectID sql.NullInt64
	var endTime sql.NullTime
	if err := row.Scan(&interval.ID, &interval.UserID, &projectID, &interval.Name, &interval.StartTime, &endTime); err != nil {
		return nil, err
	}
	if projectID.Valid {
		interval.ProjectID = &projectID.Int64
	}
	if endTime.Valid {
		t := endTime.Time
		interval.EndTime = &t
	}
	return &interval, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
