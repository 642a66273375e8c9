package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/radicool/habitkeep/internal/constants"
	apperrors "github.com/radicool/habitkeep/internal/errors"
	"github.com/radicool/habitkeep/internal/models"
)

func (s *Store) AddHabit(n models.NewHabit) (models.Habit, error) {
	if !constants.ValidFrequency(n.FrequencyType) {
		return models.Habit{}, apperrors.Validationf("frequency type must be one of %v, got %q", constants.Frequencies, n.FrequencyType)
	}
	if n.FrequencyCount < 1 {
		return models.Habit{}, apperrors.Validationf("frequency count must be positive, got %d", n.FrequencyCount)
	}
	if n.DurationSeconds < 0 {
		return models.Habit{}, apperrors.Validationf("duration seconds must not be negative, got %d", n.DurationSeconds)
	}
	if err := validatePreferredTimes(n.PreferredTimes); err != nil {
		return models.Habit{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Habit{}, err
	}

	res, err := tx.Exec(`
		INSERT INTO habits (name, description, frequency_type, frequency_count, duration_seconds, streak, reward_balance, created_at)
		VALUES (?, ?, ?, ?, ?, 1, 0.0, ?)`,
		n.Name, n.Description, string(n.FrequencyType), n.FrequencyCount, n.DurationSeconds,
		time.Now().Format(time.RFC3339))
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return models.Habit{}, apperrors.Duplicatef("habit %q", n.Name)
		}
		return models.Habit{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return models.Habit{}, err
	}

	for _, t := range n.PreferredTimes {
		if _, err := tx.Exec("INSERT INTO preferred_times (habit_id, time) VALUES (?, ?)", id, t); err != nil {
			_ = tx.Rollback()
			return models.Habit{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, err
	}

	return s.GetHabit(id)
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, frequency_type, frequency_count, duration_seconds, streak, reward_balance, created_at, last_completed
		FROM habits WHERE id = ?`, id)

	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, apperrors.NotFoundf("habit with ID %d", id)
		}
		return models.Habit{}, err
	}

	h.PreferredTimes, err = s.preferredTimes(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, frequency_type, frequency_count, duration_seconds, streak, reward_balance, created_at, last_completed
		FROM habits WHERE name = ?`, name)

	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, apperrors.NotFoundf("habit %q", name)
		}
		return models.Habit{}, err
	}

	h.PreferredTimes, err = s.preferredTimes(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, frequency_type, frequency_count, duration_seconds, streak, reward_balance, created_at, last_completed
		FROM habits ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range habits {
		habits[i].PreferredTimes, err = s.preferredTimes(habits[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return habits, nil
}

// UpdateHabit applies a partial update. The whole operation runs in one
// transaction: a name collision or malformed preferred time leaves the
// habit and its children untouched.
func (s *Store) UpdateHabit(id int64, patch models.HabitPatch) (models.Habit, error) {
	if patch.FrequencyType != nil && !constants.ValidFrequency(*patch.FrequencyType) {
		return models.Habit{}, apperrors.Validationf("frequency type must be one of %v, got %q", constants.Frequencies, *patch.FrequencyType)
	}
	if patch.FrequencyCount != nil && *patch.FrequencyCount < 1 {
		return models.Habit{}, apperrors.Validationf("frequency count must be positive, got %d", *patch.FrequencyCount)
	}
	if patch.DurationSeconds != nil && *patch.DurationSeconds < 0 {
		return models.Habit{}, apperrors.Validationf("duration seconds must not be negative, got %d", *patch.DurationSeconds)
	}
	if patch.PreferredTimes != nil {
		if err := validatePreferredTimes(*patch.PreferredTimes); err != nil {
			return models.Habit{}, err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Habit{}, err
	}

	var exists int
	if err := tx.QueryRow("SELECT count(*) FROM habits WHERE id = ?", id).Scan(&exists); err != nil {
		_ = tx.Rollback()
		return models.Habit{}, err
	}
	if exists == 0 {
		_ = tx.Rollback()
		return models.Habit{}, apperrors.NotFoundf("habit with ID %d", id)
	}

	if patch.PreferredTimes != nil {
		if _, err := tx.Exec("DELETE FROM preferred_times WHERE habit_id = ?", id); err != nil {
			_ = tx.Rollback()
			return models.Habit{}, err
		}
		for _, t := range *patch.PreferredTimes {
			if _, err := tx.Exec("INSERT INTO preferred_times (habit_id, time) VALUES (?, ?)", id, t); err != nil {
				_ = tx.Rollback()
				return models.Habit{}, err
			}
		}
	}

	setParts := []string{}
	setValues := []interface{}{}
	if patch.Name != nil {
		setParts = append(setParts, "name = ?")
		setValues = append(setValues, *patch.Name)
	}
	if patch.Description != nil {
		setParts = append(setParts, "description = ?")
		setValues = append(setValues, *patch.Description)
	}
	if patch.FrequencyType != nil {
		setParts = append(setParts, "frequency_type = ?")
		setValues = append(setValues, string(*patch.FrequencyType))
	}
	if patch.FrequencyCount != nil {
		setParts = append(setParts, "frequency_count = ?")
		setValues = append(setValues, *patch.FrequencyCount)
	}
	if patch.DurationSeconds != nil {
		setParts = append(setParts, "duration_seconds = ?")
		setValues = append(setValues, *patch.DurationSeconds)
	}

	if len(setParts) > 0 {
		query := "UPDATE habits SET "
		for i, part := range setParts {
			if i > 0 {
				query += ", "
			}
			query += part
		}
		query += " WHERE id = ?"
		setValues = append(setValues, id)

		if _, err := tx.Exec(query, setValues...); err != nil {
			_ = tx.Rollback()
			if isUniqueViolation(err) {
				name := ""
				if patch.Name != nil {
					name = *patch.Name
				}
				return models.Habit{}, apperrors.Duplicatef("habit %q", name)
			}
			return models.Habit{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, err
	}

	return s.GetHabit(id)
}

// DeleteHabit removes the habit row and cascades its preferred times.
// Completions live in the other store; the tracker purges those.
func (s *Store) DeleteHabit(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if rows == 0 {
		_ = tx.Rollback()
		return apperrors.NotFoundf("habit with ID %d", id)
	}

	if _, err := tx.Exec("DELETE FROM preferred_times WHERE habit_id = ?", id); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *Store) AdjustRewardBalance(id int64, delta float64) (models.Habit, error) {
	res, err := s.db.Exec("UPDATE habits SET reward_balance = reward_balance + ? WHERE id = ?", delta, id)
	if err != nil {
		return models.Habit{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return models.Habit{}, err
	}
	if rows == 0 {
		return models.Habit{}, apperrors.NotFoundf("habit with ID %d", id)
	}
	return s.GetHabit(id)
}

func (s *Store) MarkCompleted(id int64, streak int, completedAt time.Time, reward float64) (models.Habit, error) {
	res, err := s.db.Exec(`
		UPDATE habits SET streak = ?, last_completed = ?, reward_balance = reward_balance + ? WHERE id = ?`,
		streak, completedAt.Format(time.RFC3339), reward, id)
	if err != nil {
		return models.Habit{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return models.Habit{}, err
	}
	if rows == 0 {
		return models.Habit{}, apperrors.NotFoundf("habit with ID %d", id)
	}
	return s.GetHabit(id)
}

func (s *Store) preferredTimes(habitID int64) ([]string, error) {
	rows, err := s.db.Query("SELECT time FROM preferred_times WHERE habit_id = ? ORDER BY id", habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func validatePreferredTimes(times []string) error {
	for _, t := range times {
		if _, err := time.Parse(constants.TimeFormat, t); err != nil {
			return apperrors.Validationf("time %q is not in valid 'HH:MM' format", t)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var description sql.NullString
	var frequencyType string
	var durationSeconds sql.NullInt64
	var createdAt string
	var lastCompleted sql.NullString

	err := row.Scan(&h.ID, &h.Name, &description, &frequencyType, &h.FrequencyCount,
		&durationSeconds, &h.Streak, &h.RewardBalance, &createdAt, &lastCompleted)
	if err != nil {
		return models.Habit{}, err
	}

	h.Description = description.String
	h.FrequencyType = constants.Frequency(frequencyType)
	h.DurationSeconds = int(durationSeconds.Int64)

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lastCompleted.Valid {
		t, err := time.Parse(time.RFC3339, lastCompleted.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse last_completed: %w", err)
		}
		h.LastCompleted = &t
	}

	return h, nil
}
