package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/questforge/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	State  *apiHandler.StateHandler
	Task   *apiHandler.TaskHandler
	Record *apiHandler.RecordHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/signup", handlers.Auth.SignUp)
	r.POST("/api/v1/auth/signin", handlers.Auth.SignIn)
	r.POST("/api/v1/auth/password-reset", handlers.Auth.RequestPasswordReset)
	r.POST("/api/v1/auth/password-reset/confirm", handlers.Auth.ConfirmPasswordReset)
	r.POST("/api/v1/auth/signout", authMiddleware(handlers.Auth.SignOut))

	// State engine
	r.GET("/api/v1/state", authMiddleware(handlers.State.GetState))
	r.POST("/api/v1/state/reload", authMiddleware(handlers.State.Reload))
	r.POST("/api/v1/state/actions", authMiddleware(handlers.State.DispatchAction))

	// Tasks
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/{id}/toggle", authMiddleware(handlers.Task.ToggleTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	// Records
	r.POST("/api/v1/records/mood", authMiddleware(handlers.Record.AddMood))
	r.DELETE("/api/v1/records/mood/{id}", authMiddleware(handlers.Record.DeleteMood))
	r.POST("/api/v1/records/dates", authMiddleware(handlers.Record.AddImportantDate))
	r.DELETE("/api/v1/records/dates/{id}", authMiddleware(handlers.Record.DeleteImportantDate))
	r.POST("/api/v1/records/questions", authMiddleware(handlers.Record.AddQuestion))
	r.DELETE("/api/v1/records/questions/{id}", authMiddleware(handlers.Record.DeleteQuestion))
	r.PUT("/api/v1/settings", authMiddleware(handlers.Record.UpdateSettings))

	return r
}
