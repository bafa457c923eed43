package interfaces

import (
	"context"
	"time"

	"github.com/T-Man-05/diacare-sub000/internal/assistant"
	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/glucose"
	"github.com/T-Man-05/diacare-sub000/internal/services"
)

// Conformance checks so a signature change in a service breaks the build
// here rather than at a consumer.
var (
	_ AccountServiceInterface     = (*services.AccountService)(nil)
	_ ProfileServiceInterface     = (*services.ProfileService)(nil)
	_ ReadingsServiceInterface    = (*services.ReadingsService)(nil)
	_ ReminderServiceInterface    = (*services.ReminderService)(nil)
	_ AggregationServiceInterface = (*services.AggregationService)(nil)
	_ AssistantServiceInterface   = (*assistant.Assistant)(nil)
)

// AccountServiceInterface defines the contract for account operations
type AccountServiceInterface interface {
	Register(ctx context.Context, email, password, username string) (*database.User, error)
	Login(ctx context.Context, email, password string) (*database.Session, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Logout(ctx context.Context, token string) error
	User(ctx context.Context, userID uint) (*database.User, error)
	UserBySession(ctx context.Context, token string) (*database.User, error)
	UpdateUser(ctx context.Context, userID uint, patch services.UserPatch) (*database.User, error)
	DeleteAccount(ctx context.Context, userID uint) error
}

// ProfileServiceInterface defines the contract for profile and settings operations
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID uint) (*database.DiabeticProfile, error)
	UpsertProfile(ctx context.Context, userID uint, diabeticType database.DiabeticType, treatmentType database.TreatmentType, minGlucose, maxGlucose int) (*database.DiabeticProfile, error)
	UpdateProfile(ctx context.Context, userID uint, patch services.ProfilePatch) (*database.DiabeticProfile, error)
	GetSettings(ctx context.Context, userID uint) (*database.Settings, error)
	UpdateSettings(ctx context.Context, userID uint, patch services.SettingsPatch) (*database.Settings, error)
}

// ReadingsServiceInterface defines the contract for glucose and health card operations
type ReadingsServiceInterface interface {
	AddGlucoseReading(ctx context.Context, userID uint, value float64, unit glucose.Unit, readingType database.ReadingType, takenAt time.Time) (*database.GlucoseReading, error)
	LatestGlucoseReading(ctx context.Context, userID uint) (*database.GlucoseReading, error)
	GlucoseReadings(ctx context.Context, userID uint, limit int) ([]database.GlucoseReading, error)
	GlucoseReadingsInRange(ctx context.Context, userID uint, from, to time.Time) ([]database.GlucoseReading, error)
	UpdateHealthCard(ctx context.Context, userID uint, cardType database.CardType, value float64) (*database.HealthCardMetric, error)
	HealthCards(ctx context.Context, userID uint) ([]database.HealthCardMetric, error)
	HealthCardHistory(ctx context.Context, userID uint, cardType database.CardType, from, to time.Time) ([]database.HealthCardMetric, error)
}

// ReminderServiceInterface defines the contract for reminder operations
type ReminderServiceInterface interface {
	AddReminder(ctx context.Context, userID uint, title string, reminderType database.ReminderType, scheduledTime, recurrence string) (*database.Reminder, error)
	Reminders(ctx context.Context, userID uint) ([]database.Reminder, error)
	UpdateStatus(ctx context.Context, userID, id uint, status database.ReminderStatus) (*database.Reminder, error)
	SetEnabled(ctx context.Context, userID, id uint, enabled bool) error
	UpdateReminder(ctx context.Context, userID, id uint, patch services.ReminderPatch) (*database.Reminder, error)
	DeleteReminder(ctx context.Context, userID, id uint) error
	DeleteReminders(ctx context.Context, userID uint, ids []uint) error
	ResetDailyStatuses(ctx context.Context) error
}

// AggregationServiceInterface defines the contract for derived views
type AggregationServiceInterface interface {
	Dashboard(ctx context.Context, userID uint) (*services.DashboardView, error)
	Insights(ctx context.Context, userID uint, from, to time.Time) (*services.InsightsView, error)
	BuildAssistantContext(ctx context.Context, userID uint) (*services.AssistantContext, error)
}

// AssistantServiceInterface defines the contract for the AI chat assistant
type AssistantServiceInterface interface {
	Ask(ctx context.Context, userID uint, question string) (string, error)
}
