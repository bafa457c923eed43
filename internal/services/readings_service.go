package services

import (
	"context"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/T-Man-05/diacare-sub000/internal/apperrors"
	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/glucose"
)

// ReadingsService stores glucose readings and health card metrics as
// append-only time series.
type ReadingsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReadingsService(db *gorm.DB) *ReadingsService {
	return &ReadingsService{db: db, now: time.Now}
}

// AddGlucoseReading appends a reading. The value arrives in the caller's
// display unit and is converted to canonical mg/dL before persisting. A zero
// takenAt means "now".
func (s *ReadingsService) AddGlucoseReading(ctx context.Context, userID uint, value float64, unit glucose.Unit, readingType database.ReadingType, takenAt time.Time) (*database.GlucoseReading, error) {
	if !unit.Valid() {
		return nil, apperrors.NewValidationError("unit", "Unknown glucose unit")
	}
	if !readingType.Valid() {
		return nil, apperrors.NewValidationError("readingType", "Reading must be before_meal or after_meal")
	}
	canonical := glucose.ToCanonical(value, unit)
	if canonical <= 0 {
		return nil, apperrors.NewValidationError("value", "Glucose value must be positive")
	}
	if takenAt.IsZero() {
		takenAt = s.now()
	}

	reading := &database.GlucoseReading{
		UserID:      userID,
		Value:       canonical,
		ReadingType: readingType,
		Timestamp:   takenAt,
	}
	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return reading, nil
}

// LatestGlucoseReading returns the most recent reading, or (nil, nil) when
// the user has none yet.
func (s *ReadingsService) LatestGlucoseReading(ctx context.Context, userID uint) (*database.GlucoseReading, error) {
	var reading database.GlucoseReading
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		First(&reading).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &reading, nil
}

// GlucoseReadings returns up to limit readings, newest first. A non-positive
// limit returns everything.
func (s *ReadingsService) GlucoseReadings(ctx context.Context, userID uint, limit int) ([]database.GlucoseReading, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var readings []database.GlucoseReading
	if err := query.Find(&readings).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return readings, nil
}

// GlucoseReadingsInRange returns readings with from <= timestamp < to in
// ascending order.
func (s *ReadingsService) GlucoseReadingsInRange(ctx context.Context, userID uint, from, to time.Time) ([]database.GlucoseReading, error) {
	var readings []database.GlucoseReading
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp ASC").
		Find(&readings).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return readings, nil
}

// UpdateHealthCard appends a metric entry for a dashboard card. The unit is
// fixed per card type and stamped here, never taken from the caller.
func (s *ReadingsService) UpdateHealthCard(ctx context.Context, userID uint, cardType database.CardType, value float64) (*database.HealthCardMetric, error) {
	if !cardType.Valid() {
		return nil, apperrors.NewValidationError("cardType", "Unknown health card type")
	}
	if value < 0 {
		return nil, apperrors.NewValidationError("value", "Metric value must not be negative")
	}

	metric := &database.HealthCardMetric{
		UserID:    userID,
		CardType:  cardType,
		Value:     value,
		Unit:      cardType.Unit(),
		Timestamp: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(metric).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return metric, nil
}

// HealthCards returns the most recent metric per card type.
func (s *ReadingsService) HealthCards(ctx context.Context, userID uint) ([]database.HealthCardMetric, error) {
	var metrics []database.HealthCardMetric
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Find(&metrics).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	// Rows arrive newest first, so the first entry per type wins.
	return lo.UniqBy(metrics, func(m database.HealthCardMetric) database.CardType {
		return m.CardType
	}), nil
}

// HealthCardHistory returns a card's entries with from <= timestamp < to in
// ascending order.
func (s *ReadingsService) HealthCardHistory(ctx context.Context, userID uint, cardType database.CardType, from, to time.Time) ([]database.HealthCardMetric, error) {
	if !cardType.Valid() {
		return nil, apperrors.NewValidationError("cardType", "Unknown health card type")
	}

	var metrics []database.HealthCardMetric
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_type = ? AND timestamp >= ? AND timestamp < ?", userID, cardType, from, to).
		Order("timestamp ASC").
		Find(&metrics).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return metrics, nil
}
