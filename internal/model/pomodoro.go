package model

import (
	"time"
)

const (
	SessionWork       = "WORK"
	SessionShortBreak = "SHORT_BREAK"
	SessionLongBreak  = "LONG_BREAK"
)

var SessionTypes = []string{SessionWork, SessionShortBreak, SessionLongBreak}

// Durations are in seconds.
const (
	DefaultWorkDuration       = 1500
	DefaultShortBreakDuration = 300
	DefaultLongBreakDuration  = 900
	DefaultLongBreakInterval  = 4
)

type PomodoroSession struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	SessionType string     `db:"session_type" json:"sessionType"`
	Duration    int        `db:"duration" json:"duration"`
	StartTime   time.Time  `db:"start_time" json:"startTime"`
	EndTime     *time.Time `db:"end_time" json:"endTime"`
	Completed   bool       `db:"completed" json:"completed"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// DueAt is when the session's timer runs out.
func (s *PomodoroSession) DueAt() time.Time {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Second)
}

// RemainingSeconds is never negative.
func (s *PomodoroSession) RemainingSeconds(now time.Time) int {
	remaining := int(s.DueAt().Sub(now) / time.Second)
	return max(remaining, 0)
}

type PomodoroConfig struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"userId"`
	WorkDuration       int       `db:"work_duration" json:"workDuration"`
	ShortBreakDuration int       `db:"short_break_duration" json:"shortBreakDuration"`
	LongBreakDuration  int       `db:"long_break_duration" json:"longBreakDuration"`
	LongBreakInterval  int       `db:"long_break_interval" json:"longBreakInterval"`
	AutoStartBreaks    bool      `db:"auto_start_breaks" json:"autoStartBreaks"`
	AutoStartPomodoros bool      `db:"auto_start_pomodoros" json:"autoStartPomodoros"`
	SoundEnabled       bool      `db:"sound_enabled" json:"soundEnabled"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// DefaultPomodoroConfig returns the settings a user starts with.
func DefaultPomodoroConfig(userID string) *PomodoroConfig {
	return &PomodoroConfig{
		UserID:             userID,
		WorkDuration:       DefaultWorkDuration,
		ShortBreakDuration: DefaultShortBreakDuration,
		LongBreakDuration:  DefaultLongBreakDuration,
		LongBreakInterval:  DefaultLongBreakInterval,
		SoundEnabled:       true,
	}
}
