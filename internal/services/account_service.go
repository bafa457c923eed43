package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/T-Man-05/diacare-sub000/internal/apperrors"
	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/glucose"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// AccountService owns user registration, credential verification, sessions
// and full account deletion.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// NormalizeEmail lowercases and trims an email for case-insensitive
// uniqueness checks. Every lookup and insert goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

// Register creates a new user together with default settings. The duplicate
// check and both inserts run in one transaction so concurrent registrations
// with the same email cannot both succeed.
func (s *AccountService) Register(ctx context.Context, email, password, username string) (*database.User, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, apperrors.NewValidationError("email", "Invalid email address")
	}
	if utf8.RuneCountInString(strings.TrimSpace(username)) < minUsernameLength {
		return nil, apperrors.NewValidationError("username",
			fmt.Sprintf("Username must be at least %d characters", minUsernameLength))
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password",
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &database.User{
		Email:        email,
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(username),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateEmail
		}

		if err := tx.Create(user).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}

		settings := &database.Settings{
			UserID:               user.ID,
			ThemeMode:            database.ThemeSystem,
			Units:                glucose.UnitMgdl,
			NotificationsEnabled: true,
			Locale:               "en",
		}
		if err := tx.Create(settings).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a session. A wrong password and an
// unknown email both return (nil, nil) so callers cannot enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*database.Session, error) {
	email = NormalizeEmail(email)

	var user database.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	session := &database.Session{
		UserID:   user.ID,
		Token:    uuid.NewString(),
		IssuedAt: time.Now(),
	}

	// At most one active session per device: replace any previous session.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Session{}).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		if err := tx.Create(session).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// EmailExists reports whether a case-insensitive match is already registered.
func (s *AccountService) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&database.User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, apperrors.NewDatabaseError(err)
	}
	return count > 0, nil
}

// Logout invalidates a session token. An unknown token is a no-op.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&database.Session{}).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// User loads a user by id.
func (s *AccountService) User(ctx context.Context, userID uint) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

// UserBySession resolves a session token to its user.
func (s *AccountService) UserBySession(ctx context.Context, token string) (*database.User, error) {
	var session database.Session
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.User(ctx, session.UserID)
}

// UserPatch carries optional profile fields for UpdateUser.
type UserPatch struct {
	Username     *string
	FullName     *string
	ProfileImage *string
}

// UpdateUser applies an edit-profile patch to the user row.
func (s *AccountService) UpdateUser(ctx context.Context, userID uint, patch UserPatch) (*database.User, error) {
	user, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*patch.Username)) < minUsernameLength {
			return nil, apperrors.NewValidationError("username",
				fmt.Sprintf("Username must be at least %d characters", minUsernameLength))
		}
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.FullName != nil {
		user.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.ProfileImage != nil {
		user.ProfileImage = *patch.ProfileImage
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return user, nil
}

// DeleteAccount removes the user and every row they own in one transaction.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&database.Session{},
			&database.DiabeticProfile{},
			&database.Settings{},
			&database.Reminder{},
			&database.GlucoseReading{},
			&database.HealthCardMetric{},
		}
		for _, model := range owned {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return apperrors.NewDatabaseError(err)
			}
		}

		result := tx.Unscoped().Delete(&database.User{}, userID)
		if result.Error != nil {
			return apperrors.NewDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}
