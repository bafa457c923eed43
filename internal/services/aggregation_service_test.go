package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/glucose"
	"github.com/T-Man-05/diacare-sub000/internal/schedule"
)

type aggFixture struct {
	db        *gorm.DB
	accounts  *AccountService
	profiles  *ProfileService
	readings  *ReadingsService
	reminders *ReminderService
	agg       *AggregationService
	user      *database.User
}

func newAggFixture(t *testing.T) *aggFixture {
	t.Helper()
	db := newTestDB(t)

	f := &aggFixture{
		db:        db,
		accounts:  NewAccountService(db),
		profiles:  NewProfileService(db),
		readings:  NewReadingsService(db),
		reminders: NewReminderService(db),
	}
	f.readings.now = func() time.Time { return testNow }
	f.reminders.now = func() time.Time { return testNow }
	f.agg = NewAggregationService(f.accounts, f.profiles, f.readings, f.reminders)
	f.agg.now = func() time.Time { return testNow }

	f.user = createTestUser(t, db, "anna@example.com")
	fullName := "Anna Petrova"
	_, err := f.accounts.UpdateUser(context.Background(), f.user.ID, UserPatch{FullName: &fullName})
	require.NoError(t, err)
	return f
}

func TestDashboardEmptyUser(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	// A user with no profile, readings or reminders still gets a view.
	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello, Anna", view.Greeting)
	assert.Nil(t, view.Glucose)
	assert.True(t, view.NextReminder.Placeholder)
	assert.Equal(t, "No upcoming reminders", view.NextReminder.Title)
	assert.Zero(t, view.LateReminders)
	assert.Empty(t, view.HealthCards)
	assert.Empty(t, view.WeekSeries)
}

func TestDashboardGlucoseSummary(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	_, err := f.profiles.UpsertProfile(ctx, f.user.ID, database.DiabeticType1, database.TreatmentInsulin, 80, 160)
	require.NoError(t, err)
	_, err = f.readings.AddGlucoseReading(ctx, f.user.ID, 170, glucose.UnitMgdl, database.ReadingAfterMeal, testNow.Add(-time.Hour))
	require.NoError(t, err)

	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Glucose)
	assert.Equal(t, 170.0, view.Glucose.Value)
	assert.Equal(t, glucose.UnitMgdl, view.Glucose.Unit)
	assert.Equal(t, glucose.RangeHigh, view.Glucose.Range, "170 is above the profile max of 160")
	assert.Equal(t, "170 mg/dL", view.Glucose.Display)
}

func TestDashboardDefaultsWithoutProfile(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	// 170 mg/dL is high against the 80-160 profile above, but normal against
	// the 70-180 default used when no profile exists.
	_, err := f.readings.AddGlucoseReading(ctx, f.user.ID, 170, glucose.UnitMgdl, database.ReadingAfterMeal, testNow)
	require.NoError(t, err)

	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Glucose)
	assert.Equal(t, glucose.RangeNormal, view.Glucose.Range)
}

func TestDashboardUsesDisplayUnit(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	mmol := glucose.UnitMmol
	_, err := f.profiles.UpdateSettings(ctx, f.user.ID, SettingsPatch{Units: &mmol})
	require.NoError(t, err)
	_, err = f.readings.AddGlucoseReading(ctx, f.user.ID, 126, glucose.UnitMgdl, database.ReadingBeforeMeal, testNow)
	require.NoError(t, err)

	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Glucose)
	assert.InDelta(t, 7.0, view.Glucose.Value, 0.001)
	assert.Equal(t, "7.0 mmol/L", view.Glucose.Display)
}

func TestDashboardReminders(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	// testNow is 10:30 on a Wednesday.
	_, err := f.reminders.AddReminder(ctx, f.user.ID, "Overdue pills", database.ReminderPills, "08:00", "daily")
	require.NoError(t, err)
	evening, err := f.reminders.AddReminder(ctx, f.user.ID, "Evening walk", database.ReminderActivity, "18:00", "daily")
	require.NoError(t, err)
	_, err = f.reminders.AddReminder(ctx, f.user.ID, "Night insulin", database.ReminderCustom, "22:00", "daily")
	require.NoError(t, err)

	// A disabled late reminder and one not occurring today are both ignored.
	disabled, err := f.reminders.AddReminder(ctx, f.user.ID, "Disabled", database.ReminderWater, "07:00", "daily")
	require.NoError(t, err)
	require.NoError(t, f.reminders.SetEnabled(ctx, f.user.ID, disabled.ID, false))
	_, err = f.reminders.AddReminder(ctx, f.user.ID, "Tuesday only", database.ReminderMeal, "09:00", "2")
	require.NoError(t, err)

	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.LateReminders)
	assert.False(t, view.NextReminder.Placeholder)
	assert.Equal(t, evening.ID, view.NextReminder.ID, "closest future reminder wins")
	assert.Equal(t, "in 7h 30m", view.NextReminder.TimeRemaining)
}

func TestDashboardDoneReminderNotLate(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	r, err := f.reminders.AddReminder(ctx, f.user.ID, "Morning pills", database.ReminderPills, "08:00", "daily")
	require.NoError(t, err)
	_, err = f.reminders.UpdateStatus(ctx, f.user.ID, r.ID, database.StatusDone)
	require.NoError(t, err)

	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, view.LateReminders)
}

func TestDashboardWeekSeries(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	_, err := f.readings.AddGlucoseReading(ctx, f.user.ID, 100, glucose.UnitMgdl, database.ReadingBeforeMeal, testNow.AddDate(0, 0, -3))
	require.NoError(t, err)
	_, err = f.readings.AddGlucoseReading(ctx, f.user.ID, 140, glucose.UnitMgdl, database.ReadingAfterMeal, testNow)
	require.NoError(t, err)
	// Too old for the 7-day window.
	_, err = f.readings.AddGlucoseReading(ctx, f.user.ID, 90, glucose.UnitMgdl, database.ReadingBeforeMeal, testNow.AddDate(0, 0, -10))
	require.NoError(t, err)

	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, view.WeekSeries, 2)
	assert.Equal(t, schedule.DayStamp(testNow.AddDate(0, 0, -3)), view.WeekSeries[0].Day)
	assert.Equal(t, database.ReadingBeforeMeal, view.WeekSeries[0].ReadingType)
	assert.Equal(t, schedule.DayStamp(testNow), view.WeekSeries[1].Day)
}

func TestDashboardHealthCards(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	_, err := f.readings.UpdateHealthCard(ctx, f.user.ID, database.CardInsulin, 12)
	require.NoError(t, err)
	_, err = f.readings.UpdateHealthCard(ctx, f.user.ID, database.CardWater, 0.5)
	require.NoError(t, err)
	_, err = f.readings.UpdateHealthCard(ctx, f.user.ID, database.CardWater, 1.5)
	require.NoError(t, err)

	view, err := f.agg.Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, view.HealthCards, 2)
	// Cards come back in fixed display order: water before insulin.
	assert.Equal(t, database.CardWater, view.HealthCards[0].Type)
	assert.Equal(t, 1.5, view.HealthCards[0].Value)
	assert.Equal(t, database.CardInsulin, view.HealthCards[1].Type)
}

func TestInsightsDefaultRangeIsCurrentWeek(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	view, err := f.agg.Insights(ctx, f.user.ID, time.Time{}, time.Time{})
	require.NoError(t, err)

	// testNow is Wednesday 2024-08-14; the week runs Mon 12th to Mon 19th.
	assert.Equal(t, time.Date(2024, 8, 12, 0, 0, 0, 0, time.Local), view.From)
	assert.Equal(t, time.Date(2024, 8, 19, 0, 0, 0, 0, time.Local), view.To)
	assert.Len(t, view.Glucose, 7, "one bucket per day even with no data")
}

func TestInsightsBucketsGlucoseByDay(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	monday := time.Date(2024, 8, 12, 0, 0, 0, 0, time.Local)
	// Two before-meal readings on Monday, one after-meal on Tuesday.
	_, err := f.readings.AddGlucoseReading(ctx, f.user.ID, 100, glucose.UnitMgdl, database.ReadingBeforeMeal, monday.Add(8*time.Hour))
	require.NoError(t, err)
	_, err = f.readings.AddGlucoseReading(ctx, f.user.ID, 120, glucose.UnitMgdl, database.ReadingBeforeMeal, monday.Add(12*time.Hour))
	require.NoError(t, err)
	_, err = f.readings.AddGlucoseReading(ctx, f.user.ID, 150, glucose.UnitMgdl, database.ReadingAfterMeal, monday.Add(30*time.Hour))
	require.NoError(t, err)

	view, err := f.agg.Insights(ctx, f.user.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, view.Glucose, 7)

	mondayBucket := view.Glucose[0]
	assert.Equal(t, "2024-08-12", mondayBucket.Day)
	assert.Equal(t, 110.0, mondayBucket.BeforeAvg)
	assert.Equal(t, 2, mondayBucket.BeforeCount)
	assert.Zero(t, mondayBucket.AfterCount)

	tuesdayBucket := view.Glucose[1]
	assert.Equal(t, 150.0, tuesdayBucket.AfterAvg)
	assert.Equal(t, 1, tuesdayBucket.AfterCount)
}

func TestInsightsMetricSeries(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	monday := time.Date(2024, 8, 12, 0, 0, 0, 0, time.Local)
	// Card entries record the running total; the day's last entry wins.
	f.readings.now = func() time.Time { return monday.Add(9 * time.Hour) }
	_, err := f.readings.UpdateHealthCard(ctx, f.user.ID, database.CardCarbs, 40)
	require.NoError(t, err)
	f.readings.now = func() time.Time { return monday.Add(20 * time.Hour) }
	_, err = f.readings.UpdateHealthCard(ctx, f.user.ID, database.CardCarbs, 180)
	require.NoError(t, err)
	f.readings.now = func() time.Time { return monday.Add(26 * time.Hour) }
	_, err = f.readings.UpdateHealthCard(ctx, f.user.ID, database.CardActivity, 6000)
	require.NoError(t, err)

	view, err := f.agg.Insights(ctx, f.user.ID, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, view.Carbs, 1)
	assert.Equal(t, "2024-08-12", view.Carbs[0].Day)
	assert.Equal(t, 180.0, view.Carbs[0].Value)

	require.Len(t, view.Activity, 1)
	assert.Equal(t, "2024-08-13", view.Activity[0].Day)
	assert.Equal(t, 6000.0, view.Activity[0].Value)
}

func TestBuildAssistantContext(t *testing.T) {
	f := newAggFixture(t)
	ctx := context.Background()

	_, err := f.profiles.UpsertProfile(ctx, f.user.ID, database.DiabeticType2, database.TreatmentOralMedication, 80, 160)
	require.NoError(t, err)
	_, err = f.readings.AddGlucoseReading(ctx, f.user.ID, 145, glucose.UnitMgdl, database.ReadingAfterMeal, testNow)
	require.NoError(t, err)
	_, err = f.readings.UpdateHealthCard(ctx, f.user.ID, database.CardWater, 1.0)
	require.NoError(t, err)

	snapshot, err := f.agg.BuildAssistantContext(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna Petrova", snapshot.FullName)
	assert.Equal(t, database.DiabeticType2, snapshot.DiabeticType)
	assert.Equal(t, 80, snapshot.MinGlucose)
	assert.Equal(t, 160, snapshot.MaxGlucose)
	require.NotNil(t, snapshot.LatestReading)
	assert.Equal(t, 145.0, snapshot.LatestReading.Value)
	assert.Len(t, snapshot.RecentReadings, 1)
	assert.Len(t, snapshot.HealthCards, 1)
}
