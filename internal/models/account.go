package models

// Account is the single-user account marker. The existence of any account
// row doubles as the "onboarding complete" flag.
type Account struct {
	ID    int64
	Email string
}
