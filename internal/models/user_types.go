package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User Model with Pointers for Nullable Fields
type User struct {
	ID           int64  `json:"id" db:"id"`
	Role         string `json:"role" db:"role"`
	Status       string `json:"status" db:"status"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FullName     string `json:"fullName" db:"full_name"`

	// Onboarding progress: 0 = fresh signup, 4 = completed all steps.
	OnboardingStep int        `json:"onboardingStep" db:"onboarding_step"`
	OnboardedAt    *time.Time `json:"onboardedAt,omitempty" db:"onboarded_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Version   int       `json:"-" db:"version"`

	// --- Profile Fields (Pointers = Clean JSON) ---
	DisplayName       *string `json:"displayName,omitempty" db:"display_name"`
	Bio               *string `json:"bio,omitempty" db:"bio"`
	ProfileVisibility *string `json:"profileVisibility,omitempty" db:"profile_visibility"`
	ShareDreams       *bool   `json:"shareDreams,omitempty" db:"share_dreams"`
	ReferralSource    *string `json:"referralSource,omitempty" db:"referral_source"`
	ReferralCode      *string `json:"referralCode,omitempty" db:"referral_code"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
