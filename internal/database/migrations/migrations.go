package migrations

import "gorm.io/gorm"

// Data migrations run after AutoMigrate has shaped the tables, so they may
// assume the current schema exists.
func init() {
	// Email uniqueness is case-insensitive; rows written before lowercasing
	// was enforced at the service layer get normalized once here.
	Register("202406010001_normalize_user_emails", func(db *gorm.DB) error {
		return db.Exec("UPDATE users SET email = LOWER(email)").Error
	}, nil)

	// Reminders created before the explicit enabled flag default to enabled.
	Register("202406010002_backfill_reminder_enabled", func(db *gorm.DB) error {
		return db.Exec("UPDATE reminders SET is_enabled = true WHERE is_enabled IS NULL").Error
	}, nil)
}
