package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/controllers"
	"github.com/cppla/blogapi/middleware"
	"github.com/cppla/blogapi/utils"
)

// Deps are the stores the routes are served from.
type Deps struct {
	Users   controllers.UserStore
	Blogs   controllers.BlogStore
	Authors controllers.AuthorStore
	// States holds OAuth state tokens; nil uses an in-memory store.
	States *utils.StateStore
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, deps Deps) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file; fall back to the app logger
	gl := utils.Logger
	if cfg.GinPath != "" {
		if l, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
			gl = l
		} else {
			utils.Logger.Warn("access log disabled", zap.Error(err))
		}
	}
	r.Use(middleware.Recovery(gl), middleware.AccessLog(gl), middleware.ErrorResponder())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	tokens := utils.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	states := deps.States
	if states == nil {
		states = utils.NewStateStore(nil)
	}

	authed := middleware.Guarded(middleware.Authenticate(tokens))
	admin := middleware.Guarded(middleware.Authenticate(tokens), middleware.RequireAdmin())
	limited := middleware.RateLimit(cfg.RateLimitPerMinute)

	usersController := controllers.NewUsersController(deps.Users, tokens)
	googleController := controllers.NewGoogleController(cfg, states, deps.Users, tokens)
	blogsController := controllers.NewBlogsController(deps.Blogs)
	authorsController := controllers.NewAuthorsController(deps.Authors)
	listingController := controllers.NewListingController(deps.Blogs, cfg.PublicBaseURL)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	users := r.Group("/users")
	users.POST("/register", limited, usersController.Register)
	users.POST("/login", limited, usersController.Login)
	users.GET("/googleLogin", googleController.Login)
	users.GET("/googleRedirect", googleController.Callback)
	users.GET("", admin, usersController.List)
	users.GET("/me", authed, usersController.Me)
	users.GET("/:userId", authed, usersController.Get)
	users.PUT("/:userId", admin, usersController.Update)
	users.DELETE("/:userId", admin, usersController.Delete)
	users.POST("/:userId/likeHistory", admin, usersController.AddLike)
	users.GET("/:userId/likeHistory", authed, usersController.Likes)
	users.GET("/:userId/likeHistory/:entryId", authed, usersController.Like)
	users.DELETE("/:userId/likeHistory/:entryId", admin, usersController.RemoveLike)

	blogs := r.Group("/blogPosts")
	blogs.POST("", blogsController.Create)
	blogs.GET("", blogsController.List)
	blogs.GET("/:id", blogsController.Get)
	blogs.PUT("/:id", blogsController.Update)
	blogs.DELETE("/:id", blogsController.Delete)
	blogs.GET("/:id/comments", blogsController.Comments)
	blogs.GET("/:id/comments/:commentId", blogsController.Comment)
	blogs.POST("/:id/comments", blogsController.AddComment)
	blogs.PUT("/:id/comments/:commentId", blogsController.ReplaceComment)
	blogs.DELETE("/:id/comments/:commentId", blogsController.RemoveComment)

	authors := r.Group("/authors")
	authors.POST("", authorsController.Create)
	authors.GET("", authorsController.List)
	authors.GET("/:id", authorsController.Get)
	authors.PUT("/:id", authorsController.Update)
	authors.DELETE("/:id", authorsController.Delete)

	r.GET("/comments", listingController.Page)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "Route not found")
	})

	return r
}
