package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a storefront account. The standard authentication fields live
// directly on the record next to the profile fields.
type User struct {
	ID           uint       `gorm:"primaryKey"`
	Username     string     `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	Email        string     `gorm:"size:254"`
	FirstName    string     `gorm:"size:150"`
	MiddleName   *string    `gorm:"size:150"`
	LastName     string     `gorm:"size:150"`
	BirthDate    *time.Time `gorm:"type:date"`
	IsStaff      bool
	IsActive     bool `gorm:"not null;default:true"`
	IsSuperuser  bool
	DateJoined   time.Time `gorm:"autoCreateTime;<-:create"`
	LastLogin    *time.Time
}

func (u *User) TableName() string {
	return "users"
}

// FullName joins first, middle and last name with single spaces, skipping
// any part that is empty.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, derefString(u.MiddleName), u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (u *User) String() string {
	return u.Username
}

// SetPassword replaces PasswordHash with the bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
