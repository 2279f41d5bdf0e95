package rest

import (
	"net/http"
	"strconv"
	"strings"

	"cashflow-sentinel/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	userIDHeader = "X-User-ID"
	userIDKey    = "user_id"
)

// CORSMiddleware возвращает middleware для обработки CORS
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-User-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// UserMiddleware берет пользователя из заголовка X-User-ID, который выставляет внешний слой авторизации
func UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(userIDHeader))
		if id == "" {
			abortWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SetupCommonEndpoints добавляет общие endpoints (health, events, stats) к роутеру
func SetupCommonEndpoints(router *gin.Engine) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Events endpoint
	router.GET("/api/v1/events", func(c *gin.Context) {
		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
				limit = parsed
			}
		}
		if t := c.Query("type"); t != "" {
			c.JSON(http.StatusOK, gin.H{"events": logger.GetEventsByType(logger.EventType(t), limit)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": logger.GetEvents(limit)})
	})

	// Stats endpoint
	router.GET("/api/v1/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, logger.GetStats())
	})
}

// RegisterRoutes вешает API дашборда на группу /api/v1
func RegisterRoutes(router *gin.Engine, handlers *Handlers) {
	api := router.Group("/api/v1")

	// Пакетный запуск вызывается планировщиком и операторами, пользователь не нужен
	api.POST("/detection/run", handlers.RunDetection)

	user := api.Group("", UserMiddleware())
	{
		user.POST("/transactions", handlers.CreateTransaction)
		user.GET("/transactions", handlers.ListTransactions)
		user.PUT("/transactions/:id", handlers.UpdateTransaction)
		user.DELETE("/transactions/:id", handlers.DeleteTransaction)

		user.POST("/businesses/:id/detection", handlers.RunBusinessDetection)

		user.GET("/alerts", handlers.ListAlerts)
		user.PATCH("/alerts/:id", handlers.UpdateAlert)

		user.GET("/search/transactions", handlers.SearchTransactions)
		user.GET("/chat/history", handlers.ChatHistory)
		user.GET("/chat/context", handlers.ChatContext)
		user.POST("/chat/turns", handlers.AppendChatTurn)

		user.POST("/tools/:name", handlers.InvokeTool)
	}
}

// SetupRouter настраивает маршруты REST API
func SetupRouter(handlers *Handlers) *gin.Engine {
	router := gin.New()

	// CORS middleware
	router.Use(CORSMiddleware())

	router.Use(gin.Logger(), gin.Recovery())

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	RegisterRoutes(router, handlers)

	// Общие endpoints (health, events, stats)
	SetupCommonEndpoints(router)

	return router
}
