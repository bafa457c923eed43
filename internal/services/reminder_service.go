package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/T-Man-05/diacare-sub000/internal/apperrors"
	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/logger"
	"github.com/T-Man-05/diacare-sub000/internal/schedule"
)

// ReminderService owns reminder persistence and the per-day completion state
// machine: pending -> done | not_done | postponed, reset to pending at the
// start of each day.
type ReminderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db, now: time.Now}
}

// EffectiveStatus returns the status that applies today. A status stamped on
// a previous day reads as pending even before the nightly reset job runs.
func EffectiveStatus(r *database.Reminder, today string) database.ReminderStatus {
	if r.StatusDate != today {
		return database.StatusPending
	}
	return r.Status
}

func validateReminderInput(title string, reminderType database.ReminderType, scheduledTime, recurrence string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.NewValidationError("title", "Title must not be empty")
	}
	if !reminderType.Valid() {
		return apperrors.NewValidationError("type", "Unknown reminder type")
	}
	if _, _, err := schedule.ParseClock(scheduledTime); err != nil {
		return apperrors.NewValidationError("scheduledTime", "Scheduled time must be in HH:MM format")
	}
	if _, err := schedule.ParseRecurrence(recurrence); err != nil {
		return apperrors.NewValidationError("recurrence", err.Error())
	}
	return nil
}

// AddReminder creates an enabled reminder in pending state for today.
func (s *ReminderService) AddReminder(ctx context.Context, userID uint, title string, reminderType database.ReminderType, scheduledTime, recurrence string) (*database.Reminder, error) {
	if err := validateReminderInput(title, reminderType, scheduledTime, recurrence); err != nil {
		return nil, err
	}
	rec, _ := schedule.ParseRecurrence(recurrence)
	clock, _ := schedule.CanonicalClock(scheduledTime)

	reminder := &database.Reminder{
		UserID:        userID,
		Title:         strings.TrimSpace(title),
		Type:          reminderType,
		ScheduledTime: clock,
		Recurrence:    rec.String(),
		IsEnabled:     true,
		Status:        database.StatusPending,
		StatusDate:    schedule.DayStamp(s.now()),
	}
	if err := s.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return reminder, nil
}

// Reminders lists the user's reminders in display order: enabled before
// disabled, then ascending by scheduled time. Stale statuses surface as
// pending.
func (s *ReminderService) Reminders(ctx context.Context, userID uint) ([]database.Reminder, error) {
	var reminders []database.Reminder
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_enabled DESC, scheduled_time ASC").
		Find(&reminders).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	today := schedule.DayStamp(s.now())
	for i := range reminders {
		reminders[i].Status = EffectiveStatus(&reminders[i], today)
		reminders[i].StatusDate = today
	}
	return reminders, nil
}

func (s *ReminderService) reminder(ctx context.Context, userID, id uint) (*database.Reminder, error) {
	var reminder database.Reminder
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&reminder).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("reminder")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &reminder, nil
}

// UpdateStatus records today's completion state. done, not_done and postponed
// are only reachable from today's pending state. pending itself is always
// allowed: it re-arms today's occurrence so a mistaken tap can be undone, and
// routing through it is the only same-day path between terminal states.
func (s *ReminderService) UpdateStatus(ctx context.Context, userID, id uint, status database.ReminderStatus) (*database.Reminder, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status", "Unknown reminder status")
	}

	reminder, err := s.reminder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	today := schedule.DayStamp(s.now())
	if status != database.StatusPending && EffectiveStatus(reminder, today) != database.StatusPending {
		return nil, apperrors.NewValidationError("status", "Reminder status already set for today")
	}

	reminder.Status = status
	reminder.StatusDate = today
	if err := s.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return reminder, nil
}

// SetEnabled toggles a reminder. Disabled reminders stay visible but are
// excluded from lateness and upcoming computations.
func (s *ReminderService) SetEnabled(ctx context.Context, userID, id uint, enabled bool) error {
	result := s.db.WithContext(ctx).
		Model(&database.Reminder{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_enabled", enabled)
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("reminder")
	}
	return nil
}

// ReminderPatch carries optional fields for UpdateReminder. Status and
// enablement have dedicated operations and are not patchable here.
type ReminderPatch struct {
	Title         *string
	Type          *database.ReminderType
	ScheduledTime *string
	Recurrence    *string
}

// UpdateReminder applies a patch, validating the merged result before
// persisting.
func (s *ReminderService) UpdateReminder(ctx context.Context, userID, id uint, patch ReminderPatch) (*database.Reminder, error) {
	reminder, err := s.reminder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		reminder.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Type != nil {
		reminder.Type = *patch.Type
	}
	if patch.ScheduledTime != nil {
		reminder.ScheduledTime = *patch.ScheduledTime
	}
	if patch.Recurrence != nil {
		reminder.Recurrence = *patch.Recurrence
	}

	if err := validateReminderInput(reminder.Title, reminder.Type, reminder.ScheduledTime, reminder.Recurrence); err != nil {
		return nil, err
	}
	rec, _ := schedule.ParseRecurrence(reminder.Recurrence)
	reminder.Recurrence = rec.String()
	clock, _ := schedule.CanonicalClock(reminder.ScheduledTime)
	reminder.ScheduledTime = clock

	if err := s.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return reminder, nil
}

// DeleteReminder removes a single reminder.
func (s *ReminderService) DeleteReminder(ctx context.Context, userID, id uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&database.Reminder{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("reminder")
	}
	return nil
}

// DeleteReminders removes the given reminders in bulk. Ids not owned by the
// user are ignored.
func (s *ReminderService) DeleteReminders(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&database.Reminder{}).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ResetDailyStatuses rolls every stale reminder back to pending for the
// current day. The midnight job calls this; reads are correct without it
// because EffectiveStatus derives the same answer.
func (s *ReminderService) ResetDailyStatuses(ctx context.Context) error {
	today := schedule.DayStamp(s.now())
	result := s.db.WithContext(ctx).
		Model(&database.Reminder{}).
		Where("status_date <> ?", today).
		Updates(map[string]interface{}{
			"status":      database.StatusPending,
			"status_date": today,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Info("Reset reminder statuses for new day", "count", result.RowsAffected, "day", today)
	}
	return nil
}
