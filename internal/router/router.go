package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/qforge/qbank-backend/internal/config"
	"github.com/qforge/qbank-backend/internal/handler"
	"github.com/qforge/qbank-backend/internal/middleware"
	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/response"
	"github.com/qforge/qbank-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Paper         *handler.PaperHandler
	Template      *handler.TemplateHandler
	Subject       *handler.SubjectHandler
	Tag           *handler.TagHandler
	QuestTemplate *handler.QuestTemplateHandler
	User          *handler.UserHandler

	// One handler per question and sub-question kind, keyed by resource
	// path segment.
	Questions    map[model.QuestionKind]*handler.QuestionHandler
	SubQuestions map[model.SubQuestionKind]*handler.SubQuestionHandler
}

// NewQuestionHandlers builds the per-kind handler set for all six question
// kinds sharing one service.
func NewQuestionHandlers(questionService *service.QuestionService, p *policy.Policy) map[model.QuestionKind]*handler.QuestionHandler {
	handlers := make(map[model.QuestionKind]*handler.QuestionHandler, len(model.QuestionKinds))
	for _, kind := range model.QuestionKinds {
		handlers[kind] = handler.NewQuestionHandler(questionService, kind, p)
	}
	return handlers
}

// NewSubQuestionHandlers builds the per-kind handler set for the mixing
// sub-question kinds.
func NewSubQuestionHandlers(subQuestionService *service.SubQuestionService, p *policy.Policy) map[model.SubQuestionKind]*handler.SubQuestionHandler {
	handlers := make(map[model.SubQuestionKind]*handler.SubQuestionHandler, len(model.SubQuestionKinds))
	for _, kind := range model.SubQuestionKinds {
		handlers[kind] = handler.NewSubQuestionHandler(subQuestionService, kind, p)
	}
	return handlers
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	p *policy.Policy,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// CORS: restrict to the configured list when set, otherwise allow all
	// so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Every API route resolves the optional bearer token first; requests
	// without one proceed as guests.
	router.Use(middleware.Identify(authService))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	auth := router.Group("/api/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/signin", handlers.Auth.Signin)
		auth.POST("/signout", handlers.Auth.Signout)
		auth.GET("/me", handlers.Auth.Me)
	}

	api := router.Group("/api")

	registerResource(api, p, "papers", resourceHandlers{
		List: handlers.Paper.List, Create: handlers.Paper.Create,
		Get: handlers.Paper.Get, Update: handlers.Paper.Update, Delete: handlers.Paper.Delete,
	})
	registerResource(api, p, "templates", resourceHandlers{
		List: handlers.Template.List, Create: handlers.Template.Create,
		Get: handlers.Template.Get, Update: handlers.Template.Update, Delete: handlers.Template.Delete,
	})
	registerResource(api, p, "subjects", resourceHandlers{
		List: handlers.Subject.List, Create: handlers.Subject.Create,
		Get: handlers.Subject.Get, Update: handlers.Subject.Update, Delete: handlers.Subject.Delete,
	})
	registerResource(api, p, "tags", resourceHandlers{
		List: handlers.Tag.List, Create: handlers.Tag.Create,
		Get: handlers.Tag.Get, Update: handlers.Tag.Update, Delete: handlers.Tag.Delete,
	})
	registerResource(api, p, "questTemplates", resourceHandlers{
		List: handlers.QuestTemplate.List, Create: handlers.QuestTemplate.Create,
		Get: handlers.QuestTemplate.Get, Update: handlers.QuestTemplate.Update, Delete: handlers.QuestTemplate.Delete,
	})
	registerResource(api, p, "users", resourceHandlers{
		List: handlers.User.List, Create: handlers.User.Create,
		Get: handlers.User.Get, Update: handlers.User.Update, Delete: handlers.User.Delete,
	})

	for _, kind := range model.QuestionKinds {
		h := handlers.Questions[kind]
		registerResource(api, p, kind.Resource(), resourceHandlers{
			List: h.List, Create: h.Create,
			Get: h.Get, Update: h.Update, Delete: h.Delete,
		})
	}
	for _, kind := range model.SubQuestionKinds {
		h := handlers.SubQuestions[kind]
		registerResource(api, p, kind.Resource(), resourceHandlers{
			List: h.List, Create: h.Create,
			Get: h.Get, Update: h.Update, Delete: h.Delete,
		})
	}

	return router
}

type resourceHandlers struct {
	List   gin.HandlerFunc
	Create gin.HandlerFunc
	Get    gin.HandlerFunc
	Update gin.HandlerFunc
	Delete gin.HandlerFunc
}

// registerResource wires the uniform collection/item route pair every
// resource shares. Collection routes go through the role table up front;
// item routes authorize in the handler once the entity (and its owner) is
// loaded.
func registerResource(api *gin.RouterGroup, p *policy.Policy, resource string, h resourceHandlers) {
	collection := api.Group("/" + resource)
	collection.Use(middleware.RequireAccess(p, resource))
	{
		collection.GET("", h.List)
		collection.POST("", h.Create)
	}

	api.GET("/"+resource+"/:id", h.Get)
	api.PUT("/"+resource+"/:id", h.Update)
	api.DELETE("/"+resource+"/:id", h.Delete)
}
