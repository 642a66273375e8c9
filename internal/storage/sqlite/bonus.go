package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/radicool/habitkeep/internal/errors"
	"github.com/radicool/habitkeep/internal/models"
)

func (s *Store) AddBonusCode(code string, value float64, description string, expiry *time.Time) (models.BonusCode, error) {
	if code == "" {
		return models.BonusCode{}, apperrors.Validationf("bonus code must not be empty")
	}

	var expiryStr sql.NullString
	if expiry != nil {
		expiryStr = sql.NullString{String: expiry.Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO bonus_codes (code, value, description, created_at, expiry_date, used)
		VALUES (?, ?, ?, ?, ?, 0)`,
		code, value, description, time.Now().Format(time.RFC3339), expiryStr)
	if err != nil {
		if isUniqueViolation(err) {
			return models.BonusCode{}, apperrors.Duplicatef("bonus code %q", code)
		}
		return models.BonusCode{}, err
	}

	return s.GetBonusCode(code)
}

func (s *Store) GetBonusCode(code string) (models.BonusCode, error) {
	row := s.db.QueryRow(`
		SELECT code, value, description, created_at, expiry_date, used, used_at
		FROM bonus_codes WHERE code = ?`, code)

	b, err := scanBonusCode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BonusCode{}, apperrors.NotFoundf("bonus code %q", code)
		}
		return models.BonusCode{}, err
	}
	return b, nil
}

func (s *Store) GetBonusCodes(includeUsed bool) ([]models.BonusCode, error) {
	query := `
		SELECT code, value, description, created_at, expiry_date, used, used_at
		FROM bonus_codes`
	if !includeUsed {
		query += " WHERE used = 0"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.BonusCode
	for rows.Next() {
		b, err := scanBonusCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, b)
	}
	return codes, rows.Err()
}

// RedeemBonusCode marks the code used exactly once. When habitID is given,
// the habit's reward balance is credited in the same transaction; an
// unknown habit rolls everything back and leaves the code unused.
func (s *Store) RedeemBonusCode(code string, habitID *int64) (models.BonusCode, error) {
	b, err := s.GetBonusCode(code)
	if err != nil {
		return models.BonusCode{}, err
	}
	if b.Used {
		return models.BonusCode{}, apperrors.AlreadyUsedf("bonus code %q", code)
	}
	if b.Expired(time.Now()) {
		return models.BonusCode{}, apperrors.Expiredf("bonus code %q", code)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.BonusCode{}, err
	}

	// used = 0 in the predicate keeps redemption single-shot even if the
	// code was consumed between the read above and this write.
	res, err := tx.Exec(`
		UPDATE bonus_codes SET used = 1, used_at = ? WHERE code = ? AND used = 0`,
		time.Now().Format(time.RFC3339), code)
	if err != nil {
		_ = tx.Rollback()
		return models.BonusCode{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return models.BonusCode{}, err
	}
	if rows == 0 {
		_ = tx.Rollback()
		return models.BonusCode{}, apperrors.AlreadyUsedf("bonus code %q", code)
	}

	if habitID != nil {
		res, err := tx.Exec("UPDATE habits SET reward_balance = reward_balance + ? WHERE id = ?", b.Value, *habitID)
		if err != nil {
			_ = tx.Rollback()
			return models.BonusCode{}, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return models.BonusCode{}, err
		}
		if rows == 0 {
			_ = tx.Rollback()
			return models.BonusCode{}, apperrors.NotFoundf("habit with ID %d", *habitID)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.BonusCode{}, err
	}

	return s.GetBonusCode(code)
}

func scanBonusCode(row rowScanner) (models.BonusCode, error) {
	var b models.BonusCode
	var description sql.NullString
	var createdAt string
	var expiryDate, usedAt sql.NullString
	var used int

	err := row.Scan(&b.Code, &b.Value, &description, &createdAt, &expiryDate, &used, &usedAt)
	if err != nil {
		return models.BonusCode{}, err
	}

	b.Description = description.String
	b.Used = used != 0

	b.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.BonusCode{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if expiryDate.Valid {
		t, err := time.Parse(time.RFC3339, expiryDate.String)
		if err != nil {
			return models.BonusCode{}, fmt.Errorf("failed to parse expiry_date: %w", err)
		}
		b.ExpiryDate = &t
	}
	if usedAt.Valid {
		t, err := time.Parse(time.RFC3339, usedAt.String)
		if err != nil {
			return models.BonusCode{}, fmt.Errorf("failed to parse used_at: %w", err)
		}
		b.UsedAt = &t
	}

	return b, nil
}
