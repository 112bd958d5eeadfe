package api

import (
	"time"

	"github.com/goliatone/go-router"

	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
)

// Deps carries everything route registration needs.
type Deps struct {
	Logger     auth.Logger
	Repo       repository.Manager
	Auther     auth.Authenticator
	Validator  TokenValidator
	ContextKey string
	AuthScheme string
	ResetTTL   time.Duration
}

// RegisterRoutes mounts the full HTTP surface: /health at the root and
// the versionless API under /api.
func RegisterRoutes[T any](root router.Router[T], deps Deps) {
	if deps.Logger == nil {
		deps.Logger = auth.DefaultLogger()
	}

	root.Get("/health", Health).SetName("health.get")

	protected := Protected(MiddlewareConfig{
		Validator:  deps.Validator,
		ContextKey: deps.ContextKey,
		AuthScheme: deps.AuthScheme,
		Logger:     deps.Logger,
	})
	adminOnly := RequireRoles(deps.ContextKey, model.RoleAdmin)

	authCtrl := NewAuthController(deps.Repo, deps.Auther,
		WithAuthLogger(deps.Logger),
		WithResetTTL(deps.ResetTTL),
	)
	usersCtrl := NewUsersController(deps.Repo, deps.ContextKey, deps.Logger)
	projectsCtrl := NewProjectsController(deps.Repo, deps.Logger)
	tasksCtrl := NewTasksController(deps.Repo, deps.ContextKey, deps.Logger)

	api := root.Group("/api")

	api.Post("/auth/login", authCtrl.Login).SetName("auth.login")
	api.Get("/auth/me", func(ctx router.Context) error {
		return authCtrl.Me(ctx, deps.ContextKey)
	}, protected).SetName("auth.me")
	api.Post("/auth/forgot-password", authCtrl.ForgotPassword).SetName("auth.forgot")
	api.Post("/auth/reset-password", authCtrl.ResetPassword).SetName("auth.reset")

	api.Get("/users", usersCtrl.List, protected, adminOnly).SetName("users.list")
	api.Post("/users", usersCtrl.Create, protected, adminOnly).SetName("users.create")
	api.Put("/users/:id", usersCtrl.Update, protected, adminOnly).SetName("users.update")
	api.Patch("/users/:id/reset-password", usersCtrl.ResetPassword, protected, adminOnly).SetName("users.reset")
	api.Delete("/users/:id", usersCtrl.Delete, protected, adminOnly).SetName("users.delete")

	api.Get("/projects", projectsCtrl.List, protected).SetName("projects.list")
	api.Get("/projects/:id", projectsCtrl.Show, protected).SetName("projects.show")
	api.Post("/projects", projectsCtrl.Create, protected, adminOnly).SetName("projects.create")
	api.Put("/projects/:id", projectsCtrl.Update, protected, adminOnly).SetName("projects.update")
	api.Delete("/projects/:id", projectsCtrl.Delete, protected, adminOnly).SetName("projects.delete")

	api.Get("/tasks", tasksCtrl.List, protected).SetName("tasks.list")
	api.Get("/tasks/:id", tasksCtrl.Show, protected).SetName("tasks.show")
	api.Post("/tasks", tasksCtrl.Create, protected, adminOnly).SetName("tasks.create")
	api.Put("/tasks/:id", tasksCtrl.Update, protected, adminOnly).SetName("tasks.update")
	api.Patch("/tasks/:id/status", tasksCtrl.UpdateStatus, protected).SetName("tasks.status")
	api.Delete("/tasks/:id", tasksCtrl.Delete, protected, adminOnly).SetName("tasks.delete")
}

// Health reports process liveness.
func Health(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]any{"ok": true})
}
