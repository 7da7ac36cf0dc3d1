package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"collabry/internal/storage/sqlite"
)

// actorKey is the context key the actor middleware stores the user id under.
const actorKey = "actorID"

// Server provides HTTP handlers for the Collabry backend.
type Server struct {
	engine    *gin.Engine
	store     *sqlite.Store
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:    router,
		store:     store,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		api.POST("/users", s.handleCreateUser)
		api.GET("/users", s.handleListUsers)

		authed := api.Group("", s.requireActor)
		{
			projects := authed.Group("/projects")
			{
				projects.GET("", s.handleListProjects)
				projects.POST("", s.handleCreateProject)
				projects.GET(":id", s.handleGetProject)
				projects.PUT(":id", s.handleUpdateProject)
				projects.DELETE(":id", s.handleDeleteProject)

				projects.GET(":id/members", s.handleListMembers)
				projects.POST(":id/members", s.handleAddMember)
				projects.DELETE(":id/members/:userId", s.handleRemoveMember)

				projects.POST(":id/tasks", s.handleCreateTask)
			}

			authed.PUT("/tasks/:id", s.handleUpdateTask)
			authed.PATCH("/tasks/:id/status", s.handleUpdateTaskStatus)
			authed.DELETE("/tasks/:id", s.handleDeleteTask)
		}
	}

	s.mountStatic()
}

// requireActor extracts the authenticated user id set by the upstream auth
// layer. Session issuance is not this service's job.
func (s *Server) requireActor(c *gin.Context) {
	actor := c.GetHeader("X-User-ID")
	if actor == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
		return
	}
	c.Set(actorKey, actor)
	c.Next()
}

func actorID(c *gin.Context) string {
	return c.GetString(actorKey)
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondStoreError maps the store's sentinel errors onto HTTP statuses.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sqlite.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, sqlite.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, sqlite.ErrValidation):
		status = http.StatusBadRequest
	}
	s.respondError(c, status, err)
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
