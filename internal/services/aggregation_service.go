package services

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/glucose"
	"github.com/T-Man-05/diacare-sub000/internal/logger"
	"github.com/T-Man-05/diacare-sub000/internal/schedule"
)

// AggregationService composes dashboard and insights projections from the
// other services. It performs no writes and never fails the whole view over a
// missing sub-result: documented defaults fill the gaps so the dashboard
// always renders.
type AggregationService struct {
	accounts  *AccountService
	profiles  *ProfileService
	readings  *ReadingsService
	reminders *ReminderService
	now       func() time.Time
}

func NewAggregationService(accounts *AccountService, profiles *ProfileService, readings *ReadingsService, reminders *ReminderService) *AggregationService {
	return &AggregationService{
		accounts:  accounts,
		profiles:  profiles,
		readings:  readings,
		reminders: reminders,
		now:       time.Now,
	}
}

// GlucoseSummary is the latest reading prepared for display.
type GlucoseSummary struct {
	Value       float64 // in the user's display unit
	Unit        glucose.Unit
	Display     string
	Range       glucose.Range
	ReadingType database.ReadingType
	MeasuredAt  time.Time
}

// ReminderCard is the next-upcoming reminder shown on the dashboard.
type ReminderCard struct {
	ID            uint
	Title         string
	ScheduledTime string
	TimeRemaining string
	Placeholder   bool
}

// HealthCard is the current value of one dashboard metric tile.
type HealthCard struct {
	Type      database.CardType
	Value     float64
	Unit      string
	UpdatedAt time.Time
}

// GlucosePoint is one reading in a charted series, in display units.
type GlucosePoint struct {
	Day         string // "YYYY-MM-DD"
	ReadingType database.ReadingType
	Value       float64
	MeasuredAt  time.Time
}

// DashboardView is the composed home-screen projection.
type DashboardView struct {
	Greeting      string
	Glucose       *GlucoseSummary // nil until the first reading exists
	NextReminder  ReminderCard
	LateReminders int
	HealthCards   []HealthCard
	WeekSeries    []GlucosePoint
}

const reminderPlaceholderTitle = "No upcoming reminders"

// glucoseRange resolves the user's thresholds, defaulting to 70-180 mg/dL
// when no profile exists.
func (s *AggregationService) glucoseRange(ctx context.Context, userID uint) (int, int) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return glucose.DefaultMinGlucose, glucose.DefaultMaxGlucose
	}
	return profile.MinGlucose, profile.MaxGlucose
}

// displayUnit resolves the user's display unit, defaulting to mg/dL.
func (s *AggregationService) displayUnit(ctx context.Context, userID uint) glucose.Unit {
	settings, err := s.profiles.GetSettings(ctx, userID)
	if err != nil || !settings.Units.Valid() {
		return glucose.UnitMgdl
	}
	return settings.Units
}

func (s *AggregationService) glucoseSummary(ctx context.Context, userID uint, unit glucose.Unit, minGlucose, maxGlucose int) *GlucoseSummary {
	reading, err := s.readings.LatestGlucoseReading(ctx, userID)
	if err != nil {
		logger.Warn("Dashboard: latest reading unavailable", "user_id", userID, "error", err)
		return nil
	}
	if reading == nil {
		return nil
	}
	return &GlucoseSummary{
		Value:       glucose.ToDisplay(reading.Value, unit),
		Unit:        unit,
		Display:     glucose.FormatValue(reading.Value, unit),
		Range:       glucose.Classify(reading.Value, minGlucose, maxGlucose),
		ReadingType: reading.ReadingType,
		MeasuredAt:  reading.Timestamp,
	}
}

// occursToday reports whether the reminder's recurrence matches now's weekday.
func occursToday(r database.Reminder, now time.Time) bool {
	rec, err := schedule.ParseRecurrence(r.Recurrence)
	if err != nil {
		return false
	}
	return rec.OccursOn(now.Weekday())
}

func (s *AggregationService) reminderSummary(ctx context.Context, userID uint, now time.Time) (ReminderCard, int) {
	placeholder := ReminderCard{Title: reminderPlaceholderTitle, Placeholder: true}

	reminders, err := s.reminders.Reminders(ctx, userID)
	if err != nil {
		logger.Warn("Dashboard: reminders unavailable", "user_id", userID, "error", err)
		return placeholder, 0
	}

	// Only enabled reminders occurring today count for lateness and upcoming.
	todays := lo.Filter(reminders, func(r database.Reminder, _ int) bool {
		return r.IsEnabled && occursToday(r, now)
	})

	late := lo.CountBy(todays, func(r database.Reminder) bool {
		return schedule.IsLate(r.ScheduledTime, r.Status == database.StatusDone, now)
	})

	upcoming := lo.Filter(todays, func(r database.Reminder, _ int) bool {
		return r.Status != database.StatusDone &&
			schedule.MinutesOfDay(r.ScheduledTime) > now.Hour()*60+now.Minute()
	})
	if len(upcoming) == 0 {
		return placeholder, late
	}

	next := lo.MinBy(upcoming, func(a, b database.Reminder) bool {
		return schedule.MinutesOfDay(a.ScheduledTime) < schedule.MinutesOfDay(b.ScheduledTime)
	})
	return ReminderCard{
		ID:            next.ID,
		Title:         next.Title,
		ScheduledTime: next.ScheduledTime,
		TimeRemaining: schedule.TimeRemaining(next.ScheduledTime, false, now),
	}, late
}

func (s *AggregationService) healthCards(ctx context.Context, userID uint) []HealthCard {
	metrics, err := s.readings.HealthCards(ctx, userID)
	if err != nil {
		logger.Warn("Dashboard: health cards unavailable", "user_id", userID, "error", err)
		return nil
	}

	byType := lo.KeyBy(metrics, func(m database.HealthCardMetric) database.CardType {
		return m.CardType
	})

	var cards []HealthCard
	for _, cardType := range database.CardTypes() {
		m, ok := byType[cardType]
		if !ok {
			continue
		}
		cards = append(cards, HealthCard{
			Type:      m.CardType,
			Value:     m.Value,
			Unit:      m.Unit,
			UpdatedAt: m.Timestamp,
		})
	}
	return cards
}

func (s *AggregationService) weekSeries(ctx context.Context, userID uint, unit glucose.Unit, now time.Time) []GlucosePoint {
	from := startOfDay(now).AddDate(0, 0, -6)
	to := startOfDay(now).AddDate(0, 0, 1)

	readings, err := s.readings.GlucoseReadingsInRange(ctx, userID, from, to)
	if err != nil {
		logger.Warn("Dashboard: week series unavailable", "user_id", userID, "error", err)
		return nil
	}

	return lo.Map(readings, func(r database.GlucoseReading, _ int) GlucosePoint {
		return GlucosePoint{
			Day:         schedule.DayStamp(r.Timestamp),
			ReadingType: r.ReadingType,
			Value:       glucose.ToDisplay(r.Value, unit),
			MeasuredAt:  r.Timestamp,
		}
	})
}

// Dashboard assembles the home-screen view for one user.
func (s *AggregationService) Dashboard(ctx context.Context, userID uint) (*DashboardView, error) {
	now := s.now()

	greeting := "Hello"
	if user, err := s.accounts.User(ctx, userID); err == nil {
		if name := firstName(user.FullName); name != "" {
			greeting = "Hello, " + name
		}
	} else {
		logger.Warn("Dashboard: user unavailable", "user_id", userID, "error", err)
	}

	unit := s.displayUnit(ctx, userID)
	minGlucose, maxGlucose := s.glucoseRange(ctx, userID)
	nextReminder, late := s.reminderSummary(ctx, userID, now)

	return &DashboardView{
		Greeting:      greeting,
		Glucose:       s.glucoseSummary(ctx, userID, unit, minGlucose, maxGlucose),
		NextReminder:  nextReminder,
		LateReminders: late,
		HealthCards:   s.healthCards(ctx, userID),
		WeekSeries:    s.weekSeries(ctx, userID, unit, now),
	}, nil
}

// GlucoseDayPoint is a day bucket of glucose averages in display units. Days
// without readings of a kind carry a zero average and a zero count.
type GlucoseDayPoint struct {
	Day         string
	BeforeAvg   float64
	BeforeCount int
	AfterAvg    float64
	AfterCount  int
}

// MetricDayPoint is a day bucket of one health card metric. The value is the
// day's last entry, since card entries record the current total rather than
// increments.
type MetricDayPoint struct {
	Day   string
	Value float64
}

// InsightsView is the charted projection for the insights screen.
type InsightsView struct {
	From     time.Time
	To       time.Time
	Unit     glucose.Unit
	Glucose  []GlucoseDayPoint
	Carbs    []MetricDayPoint
	Activity []MetricDayPoint
}

// Insights produces day-bucketed series over [from, to). Zero bounds default
// to the current week, Monday through Sunday.
func (s *AggregationService) Insights(ctx context.Context, userID uint, from, to time.Time) (*InsightsView, error) {
	now := s.now()
	if from.IsZero() || to.IsZero() {
		from, to = currentWeek(now)
	}
	from = startOfDay(from)
	to = startOfDay(to)

	unit := s.displayUnit(ctx, userID)

	view := &InsightsView{
		From: from,
		To:   to,
		Unit: unit,
	}

	readings, err := s.readings.GlucoseReadingsInRange(ctx, userID, from, to)
	if err != nil {
		logger.Warn("Insights: glucose series unavailable", "user_id", userID, "error", err)
		readings = nil
	}
	view.Glucose = bucketGlucose(readings, from, to, unit)
	view.Carbs = s.metricSeries(ctx, userID, database.CardCarbs, from, to)
	view.Activity = s.metricSeries(ctx, userID, database.CardActivity, from, to)

	return view, nil
}

func (s *AggregationService) metricSeries(ctx context.Context, userID uint, cardType database.CardType, from, to time.Time) []MetricDayPoint {
	metrics, err := s.readings.HealthCardHistory(ctx, userID, cardType, from, to)
	if err != nil {
		logger.Warn("Insights: metric series unavailable", "user_id", userID, "card_type", cardType, "error", err)
		return nil
	}

	// Entries arrive ascending, so the last write of each day wins.
	latest := make(map[string]float64)
	for _, m := range metrics {
		latest[schedule.DayStamp(m.Timestamp)] = m.Value
	}

	var points []MetricDayPoint
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		stamp := schedule.DayStamp(day)
		if value, ok := latest[stamp]; ok {
			points = append(points, MetricDayPoint{Day: stamp, Value: value})
		}
	}
	return points
}

func bucketGlucose(readings []database.GlucoseReading, from, to time.Time, unit glucose.Unit) []GlucoseDayPoint {
	type bucket struct {
		beforeSum float64
		beforeN   int
		afterSum  float64
		afterN    int
	}
	buckets := make(map[string]*bucket)
	for _, r := range readings {
		stamp := schedule.DayStamp(r.Timestamp)
		b, ok := buckets[stamp]
		if !ok {
			b = &bucket{}
			buckets[stamp] = b
		}
		value := glucose.ToDisplay(r.Value, unit)
		if r.ReadingType == database.ReadingBeforeMeal {
			b.beforeSum += value
			b.beforeN++
		} else {
			b.afterSum += value
			b.afterN++
		}
	}

	var points []GlucoseDayPoint
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		stamp := schedule.DayStamp(day)
		point := GlucoseDayPoint{Day: stamp}
		if b, ok := buckets[stamp]; ok {
			if b.beforeN > 0 {
				point.BeforeAvg = b.beforeSum / float64(b.beforeN)
				point.BeforeCount = b.beforeN
			}
			if b.afterN > 0 {
				point.AfterAvg = b.afterSum / float64(b.afterN)
				point.AfterCount = b.afterN
			}
		}
		points = append(points, point)
	}
	return points
}

// AssistantContext is the flattened read-only snapshot handed to the AI chat
// assistant. It carries no store handles and grants no write access.
type AssistantContext struct {
	FullName       string
	DiabeticType   database.DiabeticType
	TreatmentType  database.TreatmentType
	MinGlucose     int
	MaxGlucose     int
	Unit           glucose.Unit
	LatestReading  *GlucoseSummary
	RecentReadings []GlucosePoint
	HealthCards    []HealthCard
}

// BuildAssistantContext assembles the assistant snapshot. Missing sub-results
// degrade to defaults like the dashboard does.
func (s *AggregationService) BuildAssistantContext(ctx context.Context, userID uint) (*AssistantContext, error) {
	unit := s.displayUnit(ctx, userID)
	minGlucose, maxGlucose := s.glucoseRange(ctx, userID)

	snapshot := &AssistantContext{
		MinGlucose: minGlucose,
		MaxGlucose: maxGlucose,
		Unit:       unit,
	}

	if user, err := s.accounts.User(ctx, userID); err == nil {
		snapshot.FullName = user.FullName
	}
	if profile, err := s.profiles.GetProfile(ctx, userID); err == nil {
		snapshot.DiabeticType = profile.DiabeticType
		snapshot.TreatmentType = profile.TreatmentType
	}

	snapshot.LatestReading = s.glucoseSummary(ctx, userID, unit, minGlucose, maxGlucose)

	if recent, err := s.readings.GlucoseReadings(ctx, userID, 10); err == nil {
		snapshot.RecentReadings = lo.Map(recent, func(r database.GlucoseReading, _ int) GlucosePoint {
			return GlucosePoint{
				Day:         schedule.DayStamp(r.Timestamp),
				ReadingType: r.ReadingType,
				Value:       glucose.ToDisplay(r.Value, unit),
				MeasuredAt:  r.Timestamp,
			}
		})
	}

	snapshot.HealthCards = s.healthCards(ctx, userID)

	return snapshot, nil
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// currentWeek returns the Monday 00:00 of now's week and the following Monday.
func currentWeek(now time.Time) (time.Time, time.Time) {
	day := startOfDay(now)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 7)
}
