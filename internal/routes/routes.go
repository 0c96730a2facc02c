package routes

import (
	"net/http"

	"github.com/personalhub/hub/internal/app"
	"github.com/personalhub/hub/internal/handler"
	"github.com/personalhub/hub/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	todo := handler.NewTodoHandler(app.TodoService)
	goal := handler.NewGoalHandler(app.GoalService)
	event := handler.NewEventHandler(app.EventService)
	note := handler.NewNoteHandler(app.NoteService)
	moment := handler.NewMomentHandler(app.MomentService)
	pomodoro := handler.NewPomodoroHandler(app.PomodoroService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)
	search := handler.NewSearchHandler(app.SearchService)
	export := handler.NewExportHandler(app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth (rate limited per client IP)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.RateLimitAuth, app.Cfg.RateLimitWindow)

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Todos
	mux.HandleFunc("GET /api/todos", middleware.RequireAuth(todo.List))
	mux.HandleFunc("POST /api/todos", middleware.RequireAuth(todo.Create))
	mux.HandleFunc("GET /api/todos/{id}", middleware.RequireAuth(todo.Get))
	mux.HandleFunc("PUT /api/todos/{id}", middleware.RequireAuth(todo.Update))
	mux.HandleFunc("PATCH /api/todos/{id}", middleware.RequireAuth(todo.Update))
	mux.HandleFunc("DELETE /api/todos/{id}", middleware.RequireAuth(todo.Delete))
	mux.HandleFunc("POST /api/todos/{id}/toggle-status", middleware.RequireAuth(todo.ToggleStatus))
	mux.HandleFunc("GET /api/todos/{id}/children", middleware.RequireAuth(todo.Children))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("PATCH /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("GET /api/goals/{id}/progress", middleware.RequireAuth(goal.Progress))
	mux.HandleFunc("POST /api/goals/{id}/progress", middleware.RequireAuth(goal.AddProgress))
	mux.HandleFunc("DELETE /api/goals/{goalId}/progress/{progressId}", middleware.RequireAuth(goal.DeleteProgress))

	// Events
	mux.HandleFunc("GET /api/events", middleware.RequireAuth(event.List))
	mux.HandleFunc("POST /api/events", middleware.RequireAuth(event.Create))
	mux.HandleFunc("GET /api/events/{id}", middleware.RequireAuth(event.Get))
	mux.HandleFunc("PUT /api/events/{id}", middleware.RequireAuth(event.Update))
	mux.HandleFunc("PATCH /api/events/{id}", middleware.RequireAuth(event.Update))
	mux.HandleFunc("DELETE /api/events/{id}", middleware.RequireAuth(event.Delete))

	// Notes
	mux.HandleFunc("GET /api/notes", middleware.RequireAuth(note.List))
	mux.HandleFunc("POST /api/notes", middleware.RequireAuth(note.Create))
	mux.HandleFunc("GET /api/notes/{id}", middleware.RequireAuth(note.Get))
	mux.HandleFunc("GET /api/notes/{id}/html", middleware.RequireAuth(note.HTML))
	mux.HandleFunc("PUT /api/notes/{id}", middleware.RequireAuth(note.Update))
	mux.HandleFunc("PATCH /api/notes/{id}", middleware.RequireAuth(note.Update))
	mux.HandleFunc("DELETE /api/notes/{id}", middleware.RequireAuth(note.Delete))

	// Moments
	mux.HandleFunc("GET /api/moments", middleware.RequireAuth(moment.List))
	mux.HandleFunc("POST /api/moments", middleware.RequireAuth(moment.Create))
	mux.HandleFunc("GET /api/moments/{id}", middleware.RequireAuth(moment.Get))
	mux.HandleFunc("PUT /api/moments/{id}", middleware.RequireAuth(moment.Update))
	mux.HandleFunc("PATCH /api/moments/{id}", middleware.RequireAuth(moment.Update))
	mux.HandleFunc("DELETE /api/moments/{id}", middleware.RequireAuth(moment.Delete))

	// Pomodoro
	mux.HandleFunc("GET /api/pomodoro/config", middleware.RequireAuth(pomodoro.Config))
	mux.HandleFunc("PUT /api/pomodoro/config", middleware.RequireAuth(pomodoro.UpdateConfig))
	mux.HandleFunc("GET /api/pomodoro/stats", middleware.RequireAuth(pomodoro.Stats))
	mux.HandleFunc("GET /api/pomodoro/sessions", middleware.RequireAuth(pomodoro.List))
	mux.HandleFunc("POST /api/pomodoro/sessions", middleware.RequireAuth(pomodoro.Create))
	mux.HandleFunc("GET /api/pomodoro/sessions/active", middleware.RequireAuth(pomodoro.Active))
	mux.HandleFunc("GET /api/pomodoro/sessions/{id}", middleware.RequireAuth(pomodoro.Get))
	mux.HandleFunc("PUT /api/pomodoro/sessions/{id}", middleware.RequireAuth(pomodoro.Update))
	mux.HandleFunc("PATCH /api/pomodoro/sessions/{id}", middleware.RequireAuth(pomodoro.Update))
	mux.HandleFunc("DELETE /api/pomodoro/sessions/{id}", middleware.RequireAuth(pomodoro.Delete))
	mux.HandleFunc("POST /api/pomodoro/sessions/{id}/complete", middleware.RequireAuth(pomodoro.Complete))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", middleware.RequireAuth(dashboard.Stats))
	mux.HandleFunc("GET /api/dashboard/activity", middleware.RequireAuth(dashboard.Activity))

	// Search
	mux.HandleFunc("GET /api/search", middleware.RequireAuth(search.Search))

	// Export
	mux.HandleFunc("GET /api/export/{resource}", middleware.RequireAuth(export.Export))
	mux.HandleFunc("POST /api/export/{resource}/archive", middleware.RequireAuth(export.Archive))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", health.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recovery,
		middleware.RequestID,
		middleware.Config(app.Cfg),
		middleware.AuthMiddleware(app.AuthService), // Before logging so request logs carry user_id
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
	)

	return handler
}
