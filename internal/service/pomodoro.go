package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

// Session and config durations are seconds.
const (
	minSessionSeconds = 60
	maxSessionSeconds = 14400
	maxStatsDays      = 365
)

type SessionInput struct {
	SessionType *string       `json:"sessionType"`
	Duration    *int          `json:"duration"`
	StartTime   Field[string] `json:"startTime"`
	EndTime     Field[string] `json:"endTime"`
	Completed   *bool         `json:"completed"`
}

type PomodoroConfigInput struct {
	WorkDuration       *int  `json:"workDuration"`
	ShortBreakDuration *int  `json:"shortBreakDuration"`
	LongBreakDuration  *int  `json:"longBreakDuration"`
	LongBreakInterval  *int  `json:"longBreakInterval"`
	AutoStartBreaks    *bool `json:"autoStartBreaks"`
	AutoStartPomodoros *bool `json:"autoStartPomodoros"`
	SoundEnabled       *bool `json:"soundEnabled"`
}

// ActiveSession is an unfinished session with its countdown.
type ActiveSession struct {
	*model.PomodoroSession
	RemainingSeconds int `json:"remainingSeconds"`
}

type DailyPomodoroStat struct {
	Date         string `json:"date"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focusMinutes"`
	TotalMinutes int    `json:"totalMinutes"`
}

type PomodoroStats struct {
	Days              int                 `json:"days"`
	CompletedSessions int                 `json:"completedSessions"`
	WorkSessions      int                 `json:"workSessions"`
	FocusMinutes      int                 `json:"focusMinutes"`
	TotalMinutes      int                 `json:"totalMinutes"`
	Daily             []DailyPomodoroStat `json:"daily"`
}

type PomodoroService struct {
	clock
	sessions repository.PomodoroSessionRepository
	configs  repository.PomodoroConfigRepository
}

func NewPomodoroService(sessions repository.PomodoroSessionRepository, configs repository.PomodoroConfigRepository, loc *time.Location) *PomodoroService {
	return &PomodoroService{clock: newClock(loc), sessions: sessions, configs: configs}
}

// Config returns the user's settings, creating the defaults on first read.
func (s *PomodoroService) Config(ctx context.Context, userID string) (*model.PomodoroConfig, error) {
	cfg, err := s.configs.ByUserID(ctx, userID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, repository.ErrPomodoroConfigNotFound) {
		return nil, err
	}

	now := s.Now().UTC()
	cfg = model.DefaultPomodoroConfig(userID)
	cfg.ID = uuid.New().String()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to create pomodoro config: %w", err)
	}

	// A concurrent first read may have won the insert.
	return s.configs.ByUserID(ctx, userID)
}

func (s *PomodoroService) UpdateConfig(ctx context.Context, userID string, in PomodoroConfigInput) (*model.PomodoroConfig, error) {
	cfg, err := s.Config(ctx, userID)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	setDuration := func(field string, v *int, dst *int) {
		if v != nil {
			validation.IntBetween(errs, field, *v, minSessionSeconds, maxSessionSeconds)
			*dst = *v
		}
	}
	setDuration("workDuration", in.WorkDuration, &cfg.WorkDuration)
	setDuration("shortBreakDuration", in.ShortBreakDuration, &cfg.ShortBreakDuration)
	setDuration("longBreakDuration", in.LongBreakDuration, &cfg.LongBreakDuration)
	if in.LongBreakInterval != nil {
		validation.IntBetween(errs, "longBreakInterval", *in.LongBreakInterval, 1, 12)
		cfg.LongBreakInterval = *in.LongBreakInterval
	}
	if in.AutoStartBreaks != nil {
		cfg.AutoStartBreaks = *in.AutoStartBreaks
	}
	if in.AutoStartPomodoros != nil {
		cfg.AutoStartPomodoros = *in.AutoStartPomodoros
	}
	if in.SoundEnabled != nil {
		cfg.SoundEnabled = *in.SoundEnabled
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	cfg.UpdatedAt = s.Now().UTC()
	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *PomodoroService) List(ctx context.Context, userID string, filter repository.PomodoroSessionFilter, p model.Pagination) (model.Page[*model.PomodoroSession], error) {
	sessions, total, err := s.sessions.List(ctx, userID, filter, &p)
	if err != nil {
		return model.Page[*model.PomodoroSession]{}, err
	}
	return model.NewPage(sessions, total, p), nil
}

func (s *PomodoroService) All(ctx context.Context, userID string, filter repository.PomodoroSessionFilter) ([]*model.PomodoroSession, error) {
	sessions, _, err := s.sessions.List(ctx, userID, filter, nil)
	return sessions, err
}

func (s *PomodoroService) ByID(ctx context.Context, userID, sessionID string) (*model.PomodoroSession, error) {
	return s.sessions.ByID(ctx, userID, sessionID)
}

// Create starts a session. Without a duration, the user's configured length
// for the session type is used.
func (s *PomodoroService) Create(ctx context.Context, userID string, in SessionInput) (*model.PomodoroSession, error) {
	now := s.Now()
	session := &model.PomodoroSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartTime: now.UTC(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	errs := validation.Errors{}
	if in.SessionType == nil {
		errs.Add("sessionType", "sessionType is required")
	}
	s.apply(errs, session, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if in.Duration == nil {
		cfg, err := s.Config(ctx, userID)
		if err != nil {
			return nil, err
		}
		session.Duration = configuredDuration(cfg, session.SessionType)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create pomodoro session: %w", err)
	}
	return session, nil
}

func (s *PomodoroService) Update(ctx context.Context, userID, sessionID string, in SessionInput) (*model.PomodoroSession, error) {
	session, err := s.sessions.ByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	errs := validation.Errors{}
	s.apply(errs, session, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	session.UpdatedAt = now.UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *PomodoroService) Delete(ctx context.Context, userID, sessionID string) error {
	return s.sessions.Delete(ctx, userID, sessionID)
}

// Complete finishes a session now. Completing a finished session is a no-op.
func (s *PomodoroService) Complete(ctx context.Context, userID, sessionID string) (*model.PomodoroSession, error) {
	if _, err := s.sessions.Complete(ctx, userID, sessionID, s.Now()); err != nil {
		return nil, err
	}
	return s.sessions.ByID(ctx, userID, sessionID)
}

// ExpireIfDue completes a session whose timer has run out, with endTime set
// to start+duration. It reports whether the session is (now) finished.
func (s *PomodoroService) ExpireIfDue(ctx context.Context, session *model.PomodoroSession, now time.Time) (bool, error) {
	if session.Completed {
		return true, nil
	}
	due := session.DueAt()
	if due.After(now) {
		return false, nil
	}

	if _, err := s.sessions.Complete(ctx, session.UserID, session.ID, due); err != nil {
		return false, fmt.Errorf("failed to expire pomodoro session: %w", err)
	}
	session.Completed = true
	session.EndTime = ptr(due.UTC())
	return true, nil
}

// Active returns the most recently started unfinished session, or nil when
// nothing is running. An overdue latest session is expired and not replaced
// by an older one.
func (s *PomodoroService) Active(ctx context.Context, userID string) (*ActiveSession, error) {
	now := s.Now()
	session, err := s.sessions.Latest(ctx, userID)
	if err != nil || session == nil {
		return nil, err
	}

	expired, err := s.ExpireIfDue(ctx, session, now)
	if err != nil || expired {
		return nil, err
	}
	return &ActiveSession{PomodoroSession: session, RemainingSeconds: session.RemainingSeconds(now)}, nil
}

// Stats summarizes completed sessions over the trailing window of days,
// today included, bucketed by calendar day in the configured zone.
func (s *PomodoroService) Stats(ctx context.Context, userID string, days int) (*PomodoroStats, error) {
	if days < 1 || days > maxStatsDays {
		return nil, validation.Field("days", fmt.Sprintf("days must be between 1 and %d", maxStatsDays))
	}

	now := s.Now()
	from := validation.StartOfDay(now).AddDate(0, 0, -(days - 1))
	completed := true
	sessions, _, err := s.sessions.List(ctx, userID, repository.PomodoroSessionFilter{
		Completed: &completed,
		From:      &from,
		To:        &now,
	}, nil)
	if err != nil {
		return nil, err
	}

	stats := &PomodoroStats{Days: days, Daily: make([]DailyPomodoroStat, days)}
	index := make(map[string]int, days)
	for i := range days {
		date := from.AddDate(0, 0, i).Format(time.DateOnly)
		stats.Daily[i] = DailyPomodoroStat{Date: date}
		index[date] = i
	}

	focusSeconds, totalSeconds := 0, 0
	dailyFocus := make([]int, days)
	dailyTotal := make([]int, days)
	for _, session := range sessions {
		i, ok := index[session.StartTime.In(s.loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		stats.CompletedSessions++
		stats.Daily[i].Sessions++
		totalSeconds += session.Duration
		dailyTotal[i] += session.Duration
		if session.SessionType == model.SessionWork {
			stats.WorkSessions++
			focusSeconds += session.Duration
			dailyFocus[i] += session.Duration
		}
	}

	stats.FocusMinutes = focusSeconds / 60
	stats.TotalMinutes = totalSeconds / 60
	for i := range stats.Daily {
		stats.Daily[i].FocusMinutes = dailyFocus[i] / 60
		stats.Daily[i].TotalMinutes = dailyTotal[i] / 60
	}
	return stats, nil
}

func (s *PomodoroService) apply(errs validation.Errors, session *model.PomodoroSession, in SessionInput, now time.Time) {
	if in.SessionType != nil {
		validation.OneOf(errs, "sessionType", *in.SessionType, model.SessionTypes)
		session.SessionType = *in.SessionType
	}
	if in.Duration != nil {
		validation.IntBetween(errs, "duration", *in.Duration, minSessionSeconds, maxSessionSeconds)
		session.Duration = *in.Duration
	}
	session.StartTime = requiredDate(errs, "startTime", in.StartTime, session.StartTime, now)
	if in.EndTime.Set {
		session.EndTime = bodyDate(errs, "endTime", in.EndTime, now)
		if session.EndTime != nil && session.EndTime.Before(session.StartTime) {
			errs.Add("endTime", "endTime must not be before startTime")
		}
	}
	if in.Completed != nil {
		session.Completed = *in.Completed
	}
}

func configuredDuration(cfg *model.PomodoroConfig, sessionType string) int {
	switch sessionType {
	case model.SessionShortBreak:
		return cfg.ShortBreakDuration
	case model.SessionLongBreak:
		return cfg.LongBreakDuration
	default:
		return cfg.WorkDuration
	}
}
