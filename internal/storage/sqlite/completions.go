package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	apperrors "github.com/radicool/habitkeep/internal/errors"
	"github.com/radicool/habitkeep/internal/models"
)

// CompletionStore owns the completions database file. It is a plain event
// log: inserts and range reads only, plus the bulk delete the tracker uses
// when a habit is removed.
type CompletionStore struct {
	path string
	db   *sql.DB
}

func NewCompletionStore(path string) *CompletionStore {
	return &CompletionStore{
		path: path,
	}
}

func (s *CompletionStore) Init() error {
	st := &Store{path: s.path}
	if err := st.open("completions", true); err != nil {
		return err
	}
	s.db = st.db
	return nil
}

func (s *CompletionStore) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitkeep init' first")
	}
	st := &Store{path: s.path}
	if err := st.open("completions", false); err != nil {
		return err
	}
	s.db = st.db
	return nil
}

func (s *CompletionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *CompletionStore) GetPath() string {
	return s.path
}

// GetDB returns the underlying database connection. Callers should use
// Init or Load first.
func (s *CompletionStore) GetDB() *sql.DB {
	return s.db
}

func (s *CompletionStore) RecordCompletion(habitID int64, at time.Time, durationSeconds *int, notes string) (models.Completion, error) {
	if at.IsZero() {
		return models.Completion{}, apperrors.Validationf("completion time must be set")
	}

	var duration sql.NullInt64
	if durationSeconds != nil {
		duration = sql.NullInt64{Int64: int64(*durationSeconds), Valid: true}
	}

	res, err := s.db.Exec(`
		INSERT INTO habit_completions (habit_id, completion_time, duration_seconds, notes)
		VALUES (?, ?, ?, ?)`,
		habitID, at.Format(time.RFC3339), duration, notes)
	if err != nil {
		return models.Completion{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Completion{}, err
	}

	c := models.Completion{
		ID:             id,
		HabitID:        habitID,
		CompletionTime: at,
		Notes:          notes,
	}
	if durationSeconds != nil {
		d := *durationSeconds
		c.DurationSeconds = &d
	}
	return c, nil
}

// GetCompletions returns a habit's completions, newest first. start and end
// are inclusive bounds on the completion timestamp; either may be nil.
func (s *CompletionStore) GetCompletions(habitID int64, start, end *time.Time) ([]models.Completion, error) {
	query := `
		SELECT id, habit_id, completion_time, duration_seconds, notes
		FROM habit_completions WHERE habit_id = ?`
	params := []interface{}{habitID}

	if start != nil {
		query += " AND completion_time >= ?"
		params = append(params, start.Format(time.RFC3339))
	}
	if end != nil {
		query += " AND completion_time <= ?"
		params = append(params, end.Format(time.RFC3339))
	}
	query += " ORDER BY completion_time DESC"

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompletions(rows)
}

// GetAllCompletions returns every completion across all habits, newest
// first. Backs the global history view.
func (s *CompletionStore) GetAllCompletions() ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, completion_time, duration_seconds, notes
		FROM habit_completions ORDER BY completion_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompletions(rows)
}

// DeleteCompletionsForHabit bulk-deletes a habit's completions. Deleting
// zero rows is not an error; the habit may simply never have been completed.
func (s *CompletionStore) DeleteCompletionsForHabit(habitID int64) error {
	_, err := s.db.Exec("DELETE FROM habit_completions WHERE habit_id = ?", habitID)
	return err
}

func scanCompletions(rows *sql.Rows) ([]models.Completion, error) {
	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		var completionTime string
		var duration sql.NullInt64
		var notes sql.NullString

		if err := rows.Scan(&c.ID, &c.HabitID, &completionTime, &duration, &notes); err != nil {
			return nil, err
		}

		t, err := time.Parse(time.RFC3339, completionTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion_time for completion %d: %w", c.ID, err)
		}
		c.CompletionTime = t
		if duration.Valid {
			d := int(duration.Int64)
			c.DurationSeconds = &d
		}
		c.Notes = notes.String

		completions = append(completions, c)
	}
	return completions, rows.Err()
}
