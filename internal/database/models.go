package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/T-Man-05/diacare-sub000/internal/glucose"
)

// DiabeticType is the diagnosed diabetes variant recorded in a profile.
type DiabeticType string

const (
	DiabeticType1           DiabeticType = "type1"
	DiabeticType2           DiabeticType = "type2"
	DiabeticTypeGestational DiabeticType = "gestational"
	DiabeticTypeMonogenic   DiabeticType = "monogenic"
	DiabeticTypeSecondary   DiabeticType = "secondary"
)

func (t DiabeticType) Valid() bool {
	switch t {
	case DiabeticType1, DiabeticType2, DiabeticTypeGestational, DiabeticTypeMonogenic, DiabeticTypeSecondary:
		return true
	}
	return false
}

// TreatmentType is how the user manages their diabetes.
type TreatmentType string

const (
	TreatmentDiet           TreatmentType = "diet"
	TreatmentOralMedication TreatmentType = "oral_medication"
	TreatmentInsulin        TreatmentType = "insulin"
)

func (t TreatmentType) Valid() bool {
	switch t {
	case TreatmentDiet, TreatmentOralMedication, TreatmentInsulin:
		return true
	}
	return false
}

// ThemeMode is the UI theme preference.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

func (t ThemeMode) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ReadingType marks whether a glucose reading was taken before or after a meal.
type ReadingType string

const (
	ReadingBeforeMeal ReadingType = "before_meal"
	ReadingAfterMeal  ReadingType = "after_meal"
)

func (t ReadingType) Valid() bool {
	return t == ReadingBeforeMeal || t == ReadingAfterMeal
}

// ReminderType categorizes what a reminder is for.
type ReminderType string

const (
	ReminderGlucose  ReminderType = "glucose"
	ReminderWater    ReminderType = "water"
	ReminderPills    ReminderType = "pills"
	ReminderActivity ReminderType = "activity"
	ReminderMeal     ReminderType = "meal"
	ReminderCustom   ReminderType = "custom"
)

func (t ReminderType) Valid() bool {
	switch t {
	case ReminderGlucose, ReminderWater, ReminderPills, ReminderActivity, ReminderMeal, ReminderCustom:
		return true
	}
	return false
}

// ReminderStatus is the completion state of today's occurrence of a reminder.
type ReminderStatus string

const (
	StatusPending   ReminderStatus = "pending"
	StatusDone      ReminderStatus = "done"
	StatusNotDone   ReminderStatus = "not_done"
	StatusPostponed ReminderStatus = "postponed"
)

func (s ReminderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusNotDone, StatusPostponed:
		return true
	}
	return false
}

// CardType identifies a dashboard health card metric.
type CardType string

const (
	CardWater    CardType = "water"
	CardPills    CardType = "pills"
	CardActivity CardType = "activity"
	CardCarbs    CardType = "carbs"
	CardInsulin  CardType = "insulin"
)

func (c CardType) Valid() bool {
	switch c {
	case CardWater, CardPills, CardActivity, CardCarbs, CardInsulin:
		return true
	}
	return false
}

// Unit returns the fixed measurement unit for the card type.
func (c CardType) Unit() string {
	switch c {
	case CardWater:
		return "L"
	case CardPills:
		return "taken"
	case CardActivity:
		return "steps"
	case CardCarbs:
		return "g"
	case CardInsulin:
		return "units"
	}
	return ""
}

// CardTypes lists every health card type in dashboard display order.
func CardTypes() []CardType {
	return []CardType{CardWater, CardPills, CardActivity, CardCarbs, CardInsulin}
}

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"` // stored lowercase
	Username     string
	PasswordHash string
	FullName     string
	ProfileImage string
}

type Session struct {
	gorm.Model
	UserID   uint `gorm:"index"`
	User     User
	Token    string `gorm:"uniqueIndex"`
	IssuedAt time.Time
}

// DiabeticProfile holds a user's diagnosis and target glucose range.
// Thresholds are canonical mg/dL regardless of the user's display unit.
type DiabeticProfile struct {
	gorm.Model
	UserID        uint `gorm:"uniqueIndex"`
	User          User
	DiabeticType  DiabeticType
	TreatmentType TreatmentType
	MinGlucose    int
	MaxGlucose    int
}

type Settings struct {
	gorm.Model
	UserID               uint `gorm:"uniqueIndex"`
	User                 User
	ThemeMode            ThemeMode
	Units                glucose.Unit
	NotificationsEnabled bool `gorm:"default:true"`
	Locale               string
}

// Reminder is a recurring scheduled task. Status is scoped to a single day:
// StatusDate records which day Status applies to, any other day reads as
// pending.
type Reminder struct {
	gorm.Model
	UserID        uint `gorm:"index"`
	User          User
	Title         string
	Type          ReminderType
	ScheduledTime string // Format: "HH:MM"
	Recurrence    string // "daily" or CSV of ISO weekdays, e.g. "2,4"
	IsEnabled     bool   `gorm:"default:true"`
	Status        ReminderStatus
	StatusDate    string // Format: "YYYY-MM-DD"
}

// GlucoseReading is an append-only glucose measurement in mg/dL.
type GlucoseReading struct {
	gorm.Model
	UserID      uint `gorm:"index"`
	User        User
	Value       float64
	ReadingType ReadingType
	Timestamp   time.Time
}

// HealthCardMetric is one append-only entry of a non-glucose dashboard metric.
type HealthCardMetric struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	User      User
	CardType  CardType
	Value     float64
	Unit      string
	Timestamp time.Time
}
