package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps содержит все, что нужно для сборки маршрутов
type RouterDeps struct {
	Users          usecase.UserUseCase
	Cohorts        usecase.CohortUseCase
	Posts          usecase.PostUseCase
	Health         ports.HealthChecker
	JWTSecret      []byte
	JWTExpiry      time.Duration
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter собирает chi-маршрутизатор со всеми эндпоинтами
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger

	authHandler := NewAuthHandler(deps.Users, deps.JWTSecret, deps.JWTExpiry, log)
	userHandler := NewUserHandler(deps.Users, deps.Cohorts, deps.Posts, log)
	cohortHandler := NewCohortHandler(deps.Cohorts, deps.Users, log)
	postHandler := NewPostHandler(deps.Posts, log)
	healthHandler := NewHealthHandler(deps.Health, log)

	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}
	r.NotFound(NotFound(log))

	authenticate := Authenticate(deps.JWTSecret, deps.Users, log)
	teacherOnly := RequireTeacher(log)

	r.Post("/login", authHandler.Login)
	r.Get("/healthz", healthHandler.Check)

	r.Route("/users", func(r chi.Router) {
		// регистрация без токена
		r.Post("/", userHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", userHandler.GetAll)
			r.Put("/me", userHandler.UpdateMe)
			r.Get("/{id}", userHandler.GetByID)
			r.Get("/{id}/posts", userHandler.GetPosts)
			r.Put("/{id}/profile", userHandler.UpdateProfile)
			r.Put("/{id}/avatar", userHandler.UploadAvatar)
			r.With(teacherOnly).Patch("/{id}", userHandler.UpdateCohort)
			r.With(teacherOnly).Patch("/{id}/role", userHandler.UpdateRole)
		})
	})

	r.Route("/cohorts", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", cohortHandler.GetAll)
		r.Get("/{cohortId}", cohortHandler.GetByID)
		r.With(teacherOnly).Post("/", cohortHandler.Create)
		r.With(teacherOnly).Post("/addUser", cohortHandler.AddUser)
		r.With(teacherOnly).Put("/{cohortId}", cohortHandler.Update)
		r.With(teacherOnly).Delete("/{cohortId}", cohortHandler.Delete)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", postHandler.CreatePost)
		r.Get("/", postHandler.GetPosts)
		r.Get("/{id}", postHandler.GetPost)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", postHandler.CreateComment)
		r.Get("/post/{postId}", postHandler.GetComments)
	})

	return r
}
