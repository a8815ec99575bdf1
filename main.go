package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"quizknow/internal/db"
	"quizknow/internal/event"
	"quizknow/internal/handlers"
	"quizknow/internal/ratelimit"
	"quizknow/internal/repository"
	"quizknow/internal/service"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	mongoClient := db.Client
	database := mongoClient.Database("quizknow")

	quizRepo := repository.NewQuizRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	connectionRepo := repository.NewConnectionRepository(database)
	contentRepo := repository.NewContentRepository(database)

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sessionRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create session indexes: %v", err)
	}
	if err := contentRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create content indexes: %v", err)
	}

	sessionService := service.NewSessionService(sessionRepo, quizRepo)
	quizService := service.NewQuizService(quizRepo, sessionRepo, connectionRepo)
	connectionService := service.NewConnectionService(connectionRepo)
	contentService := service.NewContentService(contentRepo)

	quizHandler := handlers.NewQuizHandler(quizService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	contentHandler := handlers.NewContentHandler(contentService)

	// Public routes - published quiz catalog
	publicQuiz := r.Group("/public/quiz")
	{
		publicQuiz.GET("/", quizHandler.ListPublishedQuizzes)
	}

	protected := r.Group("/protected", authRequired())
	protected.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[QUIZKNOW] %v | %3d | %13v | %15s | %-7s %#v\n%s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			param.ErrorMessage,
		)
	}))

	// Redis-based rate limiting on protected routes
	if redisAddr := os.Getenv("REDIS_URI"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PWD"),
		})
		limiter := ratelimit.NewLimiter(redisClient, 120, time.Minute)
		protected.Use(limiter.Middleware())
	} else {
		log.Println("Redis not configured, rate limiting disabled")
	}

	setupQuizRoutes(protected, quizHandler, sessionHandler, publisher)
	setupSessionRoutes(protected, sessionHandler, publisher)
	setupConnectionRoutes(protected, connectionHandler, publisher)
	setupContentRoutes(protected, contentHandler, publisher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func instructorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-Role") != "instructor" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Instructor role required",
				"code":  "INSTRUCTOR_ONLY",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func setupQuizRoutes(protected *gin.RouterGroup, quizHandler *handlers.QuizHandler, sessionHandler *handlers.SessionHandler, publisher *event.EventPublisher) {
	quiz := protected.Group("/quiz")
	{
		quiz.POST("/", instructorOnly(), quizHandler.CreateQuiz)
		quiz.GET("/my", quizHandler.ListMyQuizzes)
		quiz.GET("/available", quizHandler.ListAvailableQuizzes)
		quiz.GET("/:id", quizHandler.GetQuiz)
		quiz.PUT("/:id", instructorOnly(), quizHandler.UpdateQuiz)
		quiz.DELETE("/:id", instructorOnly(), quizHandler.DeleteQuiz)

		quiz.POST("/:id/assign", instructorOnly(), func(c *gin.Context) {
			quizHandler.AssignStudents(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.QuizAssigned, gin.H{
					"quiz_id":       c.Param("id"),
					"instructor_id": c.GetHeader("X-User-ID"),
				})
			}
		})
		quiz.POST("/:id/publish", instructorOnly(), func(c *gin.Context) {
			quizHandler.PublishQuiz(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.QuizPublished, gin.H{
					"quiz_id":       c.Param("id"),
					"instructor_id": c.GetHeader("X-User-ID"),
				})
			}
		})
		quiz.GET("/:id/sessions", instructorOnly(), quizHandler.ListQuizSessions)

		quiz.POST("/:id/start", func(c *gin.Context) {
			sessionHandler.StartSession(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.SessionStarted, gin.H{
					"quiz_id":    c.Param("id"),
					"student_id": c.GetHeader("X-User-ID"),
				})
			}
		})
	}
}

func setupSessionRoutes(protected *gin.RouterGroup, sessionHandler *handlers.SessionHandler, publisher *event.EventPublisher) {
	session := protected.Group("/session")
	{
		session.GET("/my", sessionHandler.ListMySessions)
		session.GET("/:id", sessionHandler.GetSession)
		session.PUT("/:id/answer", sessionHandler.RecordAnswer)

		session.POST("/:id/submit", func(c *gin.Context) {
			sessionHandler.SubmitSession(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.SessionSubmitted, gin.H{
					"session_id": c.Param("id"),
					"student_id": c.GetHeader("X-User-ID"),
				})
			}
		})
		session.PUT("/:id/review", instructorOnly(), func(c *gin.Context) {
			sessionHandler.ReviewSession(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.SessionReviewed, gin.H{
					"session_id":    c.Param("id"),
					"instructor_id": c.GetHeader("X-User-ID"),
				})
			}
		})
		session.DELETE("/:id", instructorOnly(), func(c *gin.Context) {
			sessionHandler.ClearSession(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.SessionCleared, gin.H{
					"session_id":    c.Param("id"),
					"instructor_id": c.GetHeader("X-User-ID"),
				})
			}
		})
	}
}

func setupConnectionRoutes(protected *gin.RouterGroup, connectionHandler *handlers.ConnectionHandler, publisher *event.EventPublisher) {
	connection := protected.Group("/connection")
	{
		connection.POST("/request", func(c *gin.Context) {
			connectionHandler.RequestConnection(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.ConnectionRequested, gin.H{
					"sender_id": c.GetHeader("X-User-ID"),
				})
			}
		})
		connection.PUT("/:id/accept", func(c *gin.Context) {
			connectionHandler.AcceptConnection(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.ConnectionAccepted, gin.H{
					"connection_id": c.Param("id"),
					"receiver_id":   c.GetHeader("X-User-ID"),
				})
			}
		})
		connection.PUT("/:id/reject", connectionHandler.RejectConnection)
		connection.GET("/my", connectionHandler.ListMyConnections)
		connection.GET("/pending", connectionHandler.ListPendingRequests)
		connection.DELETE("/:id", connectionHandler.RemoveConnection)
	}
}

func setupContentRoutes(protected *gin.RouterGroup, contentHandler *handlers.ContentHandler, publisher *event.EventPublisher) {
	content := protected.Group("/content")
	{
		content.POST("/", instructorOnly(), contentHandler.CreateContent)
		content.GET("/my", contentHandler.ListMyContent)
		content.GET("/assigned", contentHandler.ListAssignedContent)
		content.GET("/:id", contentHandler.GetContent)
		content.PUT("/:id", instructorOnly(), contentHandler.UpdateContent)
		content.DELETE("/:id", instructorOnly(), contentHandler.DeleteContent)
		content.POST("/:id/assign", instructorOnly(), contentHandler.AssignStudents)

		content.POST("/:id/view", func(c *gin.Context) {
			contentHandler.RecordView(c)
			if publisher != nil && c.Writer.Status() < 300 {
				publisher.Publish(event.ContentViewed, gin.H{
					"content_id": c.Param("id"),
					"student_id": c.GetHeader("X-User-ID"),
				})
			}
		})
		content.PUT("/:id/view/complete", contentHandler.CompleteView)
		content.POST("/:id/feedback", contentHandler.SubmitFeedback)
	}
}
