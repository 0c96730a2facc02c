package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/personalhub/hub/internal/app"
	"github.com/personalhub/hub/internal/config"
	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

func SeedCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with sample todos, goals, events, notes, moments and sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runSeed(ctx, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "demo@example.com", "demo account email")
	cmd.Flags().StringVar(&password, "password", "correct-horse-battery", "demo account password")
	return cmd
}

func runSeed(ctx context.Context, email, password string) error {
	cfg := config.Load()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.AuthService.Register(ctx, email, password)
	var verrs validation.Errors
	if errors.As(err, &verrs) && verrs.Has("email") {
		user, err = a.AuthService.Login(ctx, email, password)
	}
	if err != nil {
		return fmt.Errorf("failed to prepare demo user: %w", err)
	}

	now := time.Now().In(cfg.Location())
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }

	steps := []struct {
		name string
		run  func() error
	}{
		{"todos", func() error {
			parent, err := a.TodoService.Create(ctx, user.ID, service.TodoInput{
				Title:    ptr("Plan the week"),
				Priority: ptr(model.PriorityHigh),
				DueDate:  service.Some(day(1)),
			})
			if err != nil {
				return err
			}
			_, err = a.TodoService.Create(ctx, user.ID, service.TodoInput{
				Title:    ptr("Book dentist appointment"),
				ParentID: service.Some(parent.ID),
			})
			if err != nil {
				return err
			}
			_, err = a.TodoService.Create(ctx, user.ID, service.TodoInput{
				Title:          ptr("Water the plants"),
				DueDate:        service.Some(day(0)),
				RepeatType:     service.Some(model.RepeatWeekly),
				RepeatInterval: ptr(1),
			})
			return err
		}},
		{"goals", func() error {
			goal, err := a.GoalService.Create(ctx, user.ID, service.GoalInput{
				Title:       ptr("Read 12 books"),
				Type:        ptr(model.GoalTypeAnnual),
				TargetValue: service.Some(12.0),
				Unit:        ptr("books"),
				StartDate:   service.Some(day(-30)),
				EndDate:     service.Some(day(335)),
			})
			if err != nil {
				return err
			}
			_, _, err = a.GoalService.AddProgress(ctx, user.ID, goal.ID, service.ProgressInput{
				Value: ptr(2.0),
				Note:  ptr("Finished two over the holidays"),
			})
			return err
		}},
		{"events", func() error {
			start := now.Add(24 * time.Hour).Truncate(time.Hour)
			_, err := a.EventService.Create(ctx, user.ID, service.EventInput{
				Title:         ptr("Team lunch"),
				StartDateTime: service.Some(start.Format(time.RFC3339)),
				EndDateTime:   service.Some(start.Add(time.Hour).Format(time.RFC3339)),
				Location:      service.Some("Cafe on 5th"),
			})
			return err
		}},
		{"notes", func() error {
			_, err := a.NoteService.Create(ctx, user.ID, service.NoteInput{
				Title:   ptr("Reading list"),
				Content: service.Some("---\ntags: [books]\n---\n# Next up\n\n- The Pragmatic Programmer\n- Designing Data-Intensive Applications\n"),
			})
			return err
		}},
		{"moments", func() error {
			_, err := a.MomentService.Create(ctx, user.ID, service.MomentInput{
				Content: ptr("First coffee on the new balcony"),
				Tags:    &[]string{"home"},
			})
			return err
		}},
		{"pomodoro sessions", func() error {
			_, err := a.PomodoroService.Create(ctx, user.ID, service.SessionInput{
				SessionType: ptr(model.SessionWork),
				Duration:    ptr(1500),
				StartTime:   service.Some(now.Add(-2 * time.Hour).Format(time.RFC3339)),
				Completed:   ptr(true),
			})
			return err
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
		fmt.Printf("[seed] %s done\n", step.name)
	}

	fmt.Printf("seeded demo data for %s\n", user.Email)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
