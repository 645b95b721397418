package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/eisengo/backend/api/handler"
)

type Handlers struct {
	Auth       *apiHandler.AuthHandler
	Task       *apiHandler.TaskHandler
	Attachment *apiHandler.AttachmentHandler
	Health     *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public auth routes
	r.POST("/api/v1/register", handlers.Auth.Register)
	r.POST("/api/v1/login", handlers.Auth.Login)

	// Protected routes
	r.GET("/api/v1/me", authMiddleware(handlers.Auth.Me))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.POST("/api/v1/tasks/{id}/upload/{kind}", authMiddleware(handlers.Attachment.Upload))
	r.GET("/api/v1/download/{id}/{filename}", authMiddleware(handlers.Attachment.Download))

	return r
}
