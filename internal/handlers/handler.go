package handlers

import (
	"net/http"

	"myflix"
	"myflix/internal/logger"
	"myflix/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services         *service.Service
	log              *logger.Logger
	limiter          *LoginLimiter
	enforceOwnership bool
}

type Option func(*Handler)

// WithLoginLimiter throttles repeated failed logins. A nil limiter disables it.
func WithLoginLimiter(l *LoginLimiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// WithOwnershipCheck makes mutating /users/:username routes require the
// caller to be that user. Off by default: any valid token is enough.
func WithOwnershipCheck(enabled bool) Option {
	return func(h *Handler) { h.enforceOwnership = enabled }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(h.requestLogger(), gin.CustomRecovery(h.recoverPanic))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h.registerPublicRoutes(router)
	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerPublicRoutes(r *gin.Engine) {
	r.GET("/", h.welcome)
	r.GET("/documentation", h.documentation)
	r.GET("/health", h.health)
	r.StaticFS("/public", http.FS(publicFS()))
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.POST("/users", h.register)

	login := []gin.HandlerFunc{}
	if h.limiter != nil {
		login = append(login, h.limiter.Middleware())
	}
	r.POST("/login", append(login, h.login)...)
}

// registerAPIRoutes mounts everything behind the bearer token gate.
func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/", h.requireAuth(h.services.Bearer))
	{
		h.registerMovieRoutes(api)
		h.registerUserRoutes(api)
	}
}

func (h *Handler) registerMovieRoutes(api *gin.RouterGroup) {
	movies := api.Group("/movies")
	{
		movies.GET("", h.listMovies)
		movies.GET("/:title", h.getMovie)
		movies.GET("/genre/:name", h.getMovieByGenre)
		movies.GET("/director/:name", h.getMovieByDirector)
	}
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:username", h.getUser)
		users.GET("/:username/movies/ws", h.favoritesStream)

		owned := users.Group("/:username", h.requireOwner)
		owned.PUT("", h.updateUser)
		owned.DELETE("", h.deleteUser)
		owned.POST("/movies/:movieId", h.addFavorite)
		owned.DELETE("/movies/:movieId", h.removeFavorite)
	}
}

func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	if h.log != nil {
		h.log.Errorw("http_panic_recovered", "panic", recovered, "path", c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, myflix.ErrorResponse{Error: "Something went wrong!"})
}
