package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/T-Man-05/diacare-sub000/internal/apperrors"
	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/glucose"
)

// Physiological bound applied to profile thresholds, in canonical mg/dL.
// The same bound applies whatever unit the editing screen displays.
const (
	glucoseBoundLower = 20
	glucoseBoundUpper = 600
)

// ProfileService persists the diabetic profile and general settings.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func validateGlucoseRange(minGlucose, maxGlucose int) error {
	if minGlucose < glucoseBoundLower || minGlucose > glucoseBoundUpper {
		return apperrors.NewValidationError("minGlucose",
			fmt.Sprintf("Minimum glucose must be between %d and %d mg/dL", glucoseBoundLower, glucoseBoundUpper))
	}
	if maxGlucose < glucoseBoundLower || maxGlucose > glucoseBoundUpper {
		return apperrors.NewValidationError("maxGlucose",
			fmt.Sprintf("Maximum glucose must be between %d and %d mg/dL", glucoseBoundLower, glucoseBoundUpper))
	}
	if minGlucose >= maxGlucose {
		return apperrors.NewValidationError("minGlucose", "Minimum glucose must be below maximum glucose")
	}
	return nil
}

// GetProfile returns the user's diabetic profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*database.DiabeticProfile, error) {
	var profile database.DiabeticProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("diabetic_profile")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &profile, nil
}

// UpsertProfile creates or replaces the user's diabetic profile. Thresholds
// are canonical mg/dL.
func (s *ProfileService) UpsertProfile(ctx context.Context, userID uint, diabeticType database.DiabeticType, treatmentType database.TreatmentType, minGlucose, maxGlucose int) (*database.DiabeticProfile, error) {
	if !diabeticType.Valid() {
		return nil, apperrors.NewValidationError("diabeticType", "Unknown diabetic type")
	}
	if !treatmentType.Valid() {
		return nil, apperrors.NewValidationError("treatmentType", "Unknown treatment type")
	}
	if err := validateGlucoseRange(minGlucose, maxGlucose); err != nil {
		return nil, err
	}

	var profile database.DiabeticProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, apperrors.NewDatabaseError(err)
	}

	profile.UserID = userID
	profile.DiabeticType = diabeticType
	profile.TreatmentType = treatmentType
	profile.MinGlucose = minGlucose
	profile.MaxGlucose = maxGlucose

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &profile, nil
}

// ProfilePatch carries optional fields for UpdateProfile.
type ProfilePatch struct {
	DiabeticType  *database.DiabeticType
	TreatmentType *database.TreatmentType
	MinGlucose    *int
	MaxGlucose    *int
}

// UpdateProfile applies a patch to an existing profile. The merged result is
// validated before anything is persisted.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*database.DiabeticProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.DiabeticType != nil {
		if !patch.DiabeticType.Valid() {
			return nil, apperrors.NewValidationError("diabeticType", "Unknown diabetic type")
		}
		profile.DiabeticType = *patch.DiabeticType
	}
	if patch.TreatmentType != nil {
		if !patch.TreatmentType.Valid() {
			return nil, apperrors.NewValidationError("treatmentType", "Unknown treatment type")
		}
		profile.TreatmentType = *patch.TreatmentType
	}
	if patch.MinGlucose != nil {
		profile.MinGlucose = *patch.MinGlucose
	}
	if patch.MaxGlucose != nil {
		profile.MaxGlucose = *patch.MaxGlucose
	}

	if err := validateGlucoseRange(profile.MinGlucose, profile.MaxGlucose); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return profile, nil
}

// GetSettings returns the user's general settings.
func (s *ProfileService) GetSettings(ctx context.Context, userID uint) (*database.Settings, error) {
	var settings database.Settings
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("settings")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &settings, nil
}

// SettingsPatch carries optional fields for UpdateSettings.
type SettingsPatch struct {
	ThemeMode            *database.ThemeMode
	Units                *glucose.Unit
	NotificationsEnabled *bool
	Locale               *string
}

// UpdateSettings applies a patch to the user's settings. Changing the display
// unit rewrites no stored reading: conversion happens only at display time.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID uint, patch SettingsPatch) (*database.Settings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.ThemeMode != nil {
		if !patch.ThemeMode.Valid() {
			return nil, apperrors.NewValidationError("themeMode", "Unknown theme mode")
		}
		settings.ThemeMode = *patch.ThemeMode
	}
	if patch.Units != nil {
		if !patch.Units.Valid() {
			return nil, apperrors.NewValidationError("units", "Unknown glucose unit")
		}
		settings.Units = *patch.Units
	}
	if patch.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.Locale != nil {
		settings.Locale = *patch.Locale
	}

	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return settings, nil
}
