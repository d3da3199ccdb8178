package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxpadi/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	userH *UserHandler,
	convH *ConversationHandler,
	aiH *AIHandler,
	taxH *TaxHandler,
	articleH *ArticleHandler,
	suggestionH *SuggestionHandler,
	fileH *FileHandler,
	uploadDir string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	// Rutas públicas.
	auth := r.Group("/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/google", authH.GoogleLogin)
	auth.POST("/refresh", authH.RefreshToken)
	auth.POST("/logout", authH.Logout)

	r.POST("/ai/prompt", aiH.Prompt)
	r.GET("/articles", articleH.List)
	r.GET("/articles/:id", articleH.Get)
	r.Static("/uploads", uploadDir)

	// Rutas autenticadas.
	authed := r.Group("/", JWTAuthMiddleware(jwtSvc))
	authed.GET("/users/me", userH.Me)
	authed.GET("/users", userH.List)

	authed.POST("/conversations", convH.Create)
	authed.GET("/conversations", convH.List)
	authed.GET("/conversations/:id", convH.Get)
	authed.DELETE("/conversations/:id", convH.Delete)
	authed.GET("/conversations/:id/messages", convH.ListMessages)
	authed.POST("/conversations/:id/messages", convH.PostMessage)
	authed.POST("/conversations/:id/upload", fileH.Upload)

	authed.POST("/tax-calculator/calculate", taxH.Calculate)
	authed.GET("/suggestions", suggestionH.List)

	authed.POST("/articles", articleH.Create)
	authed.PUT("/articles/:id", articleH.Update)
	authed.DELETE("/articles/:id", articleH.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
