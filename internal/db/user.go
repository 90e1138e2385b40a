package db

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User 定义了用户模型。Guest 账号没有密码，仅在当前会话内有效。
type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	Password  string
	Guest     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisterUser creates an account with a bcrypt hashed password.
func RegisterUser(gdb *gorm.DB, email, password string) (*User, error) {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	if trimmedEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	var existing User
	err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{ID: uuid.New().String(), Email: trimmedEmail, Password: string(hashed)}
	if err := gdb.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthenticateUser verifies an email/password pair.
func AuthenticateUser(gdb *gorm.DB, email, password string) (*User, error) {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))

	var user User
	if err := gdb.Where("email = ? AND guest = ?", trimmedEmail, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GuestUser creates a throwaway guest account for the current session.
func GuestUser(gdb *gorm.DB) (*User, error) {
	id := uuid.New().String()
	user := User{ID: id, Email: "guest-" + id[:8] + "@local", Guest: true}
	if err := gdb.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
