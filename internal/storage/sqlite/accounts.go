package sqlite

import (
	"database/sql"
	"errors"

	apperrors "github.com/radicool/habitkeep/internal/errors"
	"github.com/radicool/habitkeep/internal/models"
)

func (s *Store) AddAccount(email string) (models.Account, error) {
	if email == "" {
		return models.Account{}, apperrors.Validationf("email must not be empty")
	}

	res, err := s.db.Exec("INSERT INTO accounts (email) VALUES (?)", email)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, apperrors.Duplicatef("account with email %q", email)
		}
		return models.Account{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Account{}, err
	}
	return models.Account{ID: id, Email: email}, nil
}

// AccountExists reports whether any account row exists. The presence of
// one doubles as the onboarding-complete flag.
func (s *Store) AccountExists() (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CurrentEmail returns the first account's email.
func (s *Store) CurrentEmail() (string, error) {
	var email string
	err := s.db.QueryRow("SELECT email FROM accounts ORDER BY id LIMIT 1").Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.NotFoundf("account")
		}
		return "", err
	}
	return email, nil
}
