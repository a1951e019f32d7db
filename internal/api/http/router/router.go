package router

import (
	"github.com/JordyV23/social-app/internal/api/http/handler"
	"github.com/JordyV23/social-app/internal/api/http/middleware"
	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/metrics"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/gin-gonic/gin"
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Auth   handler.AuthService
	Social handler.SocialService
	Feed   handler.FeedService
	Token  middleware.TokenService
}

// Options tunes transport behaviour.
type Options struct {
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
	LegacyStatusCodes  bool
}

// Router builds the gin engine serving the social API.
type Router struct {
	services       Services
	contextManager model.ContextManager
	storage        model.Storage
	pinger         model.Pinger
	metrics        *metrics.Metrics
	logger         *logger.Logger
	options        Options
}

func New(
	services Services,
	contextManager model.ContextManager,
	storage model.Storage,
	pinger model.Pinger,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	options Options,
) *Router {
	return &Router{
		services:       services,
		contextManager: contextManager,
		storage:        storage,
		pinger:         pinger,
		metrics:        metrics,
		logger:         logger,
		options:        options,
	}
}

// Register wires middleware and every route into a new engine.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.MaxMultipartMemory = r.options.MaxBodyBytes

	logging := middleware.NewLogging(r.logger)
	requestMetrics := middleware.NewMetrics(r.metrics)

	engine.Use(
		gin.CustomRecoveryWithWriter(nil, r.recover),
		logging.Handle,
		requestMetrics.Handle,
		middleware.SecurityHeaders,
		middleware.CORS(r.options.CORSAllowedOrigins),
		middleware.BodyLimit(r.options.MaxBodyBytes),
	)

	engine.GET("/healthz", handler.NewHealth(r.pinger, r.logger).Get)
	engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	engine.GET("/assets/*name", handler.NewAsset(r.storage, r.logger).Get)

	r.registerAuthRoutes(engine)

	authenticate := middleware.NewAuthenticate(r.services.Token, r.contextManager, r.logger)
	protected := engine.Group("", authenticate.Handle)
	r.registerUserRoutes(protected)
	r.registerPostRoutes(protected)

	return engine
}

func (r *Router) registerAuthRoutes(engine *gin.Engine) {
	authHandler := handler.NewAuth(r.services.Auth, r.storage, r.logger)

	auth := engine.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
}

func (r *Router) registerUserRoutes(group *gin.RouterGroup) {
	userHandler := handler.NewUser(r.services.Social, r.logger)

	users := group.Group("/users")
	users.GET("/:id", userHandler.GetUser)
	users.GET("/:id/friends", userHandler.GetFriends)
	users.PUT("/:id/:friendId", userHandler.ToggleFriend)
}

func (r *Router) registerPostRoutes(group *gin.RouterGroup) {
	postHandler := handler.NewPost(r.services.Feed, r.storage, r.options.LegacyStatusCodes, r.logger)

	posts := group.Group("/posts")
	posts.POST("", postHandler.CreatePost)
	posts.GET("", postHandler.GetFeed)
	// the author id shares the :id segment with the like route
	posts.GET("/:id/posts", postHandler.GetUserPosts)
	posts.PATCH("/:id/like", postHandler.ToggleLike)
}

func (r *Router) recover(c *gin.Context, recovered any) {
	r.logger.Error("panic while serving request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"panic", recovered)
	apiErr := apperr.NewErrInternal()
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
