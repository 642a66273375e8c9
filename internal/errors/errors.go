package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/radicool/habitkeep/internal/logger"
)

// Failure kinds surfaced by the stores and the tracker. Callers match them
// with errors.Is; every constructor below wraps one of these sentinels.
var (
	ErrValidation  = stderrors.New("validation failed")
	ErrDuplicate   = stderrors.New("already exists")
	ErrNotFound    = stderrors.New("not found")
	ErrAlreadyUsed = stderrors.New("already used")
	ErrExpired     = stderrors.New("expired")
)

// Validationf returns a validation error with the given detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Duplicatef returns a duplicate (unique-constraint) error.
func Duplicatef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
}

// NotFoundf returns a not-found error.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// AlreadyUsedf returns an already-used error for a redeemed bonus code.
func AlreadyUsedf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrAlreadyUsed)...)
}

// Expiredf returns an expired error for a lapsed bonus code.
func Expiredf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrExpired)...)
}

func IsValidation(err error) bool  { return stderrors.Is(err, ErrValidation) }
func IsDuplicate(err error) bool   { return stderrors.Is(err, ErrDuplicate) }
func IsNotFound(err error) bool    { return stderrors.Is(err, ErrNotFound) }
func IsAlreadyUsed(err error) bool { return stderrors.Is(err, ErrAlreadyUsed) }
func IsExpired(err error) bool     { return stderrors.Is(err, ErrExpired) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
