package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/personalhub/hub/internal/config"
	"github.com/personalhub/hub/internal/db"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	AuthService      *service.AuthService
	TodoService      *service.TodoService
	GoalService      *service.GoalService
	EventService     *service.EventService
	NoteService      *service.NoteService
	MomentService    *service.MomentService
	PomodoroService  *service.PomodoroService
	DashboardService *service.DashboardService
	SearchService    *service.SearchService
	ExportService    *service.ExportService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.DBMigrateOnStart {
		err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Storage is optional; without a bucket archiving answers 503.
	var store storage.Storage
	if cfg.StorageEnabled() {
		store, err = storage.New(ctx, cfg)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	return Wire(cfg, database, store), nil
}

// Wire builds repositories and services over an open database.
func Wire(cfg *config.Config, database *sqlx.DB, store storage.Storage) *App {
	loc := cfg.Location()

	// Repositories
	userRepository := repository.NewUserRepository(database)
	todoRepository := repository.NewTodoRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	goalProgressRepository := repository.NewGoalProgressRepository(database)
	eventRepository := repository.NewEventRepository(database)
	noteRepository := repository.NewNoteRepository(database)
	momentRepository := repository.NewMomentRepository(database)
	sessionRepository := repository.NewPomodoroSessionRepository(database)
	pomodoroConfigRepository := repository.NewPomodoroConfigRepository(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	todoService := service.NewTodoService(todoRepository, loc)
	goalService := service.NewGoalService(goalRepository, goalProgressRepository, loc)
	eventService := service.NewEventService(eventRepository, loc)
	noteService := service.NewNoteService(noteRepository, loc)
	momentService := service.NewMomentService(momentRepository, loc)
	pomodoroService := service.NewPomodoroService(sessionRepository, pomodoroConfigRepository, loc)
	dashboardService := service.NewDashboardService(
		todoRepository,
		goalRepository,
		eventRepository,
		noteRepository,
		momentRepository,
		sessionRepository,
		pomodoroService,
		loc,
	)
	searchService := service.NewSearchService(todoRepository, goalRepository, eventRepository, noteRepository, momentRepository)
	exportService := service.NewExportService(
		todoService,
		goalService,
		eventService,
		noteService,
		momentService,
		pomodoroService,
		store,
		cfg.S3PresignExpiry,
		loc,
	)

	return &App{
		Cfg:              cfg,
		DB:               database,
		AuthService:      authService,
		TodoService:      todoService,
		GoalService:      goalService,
		EventService:     eventService,
		NoteService:      noteService,
		MomentService:    momentService,
		PomodoroService:  pomodoroService,
		DashboardService: dashboardService,
		SearchService:    searchService,
		ExportService:    exportService,
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
