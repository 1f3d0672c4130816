package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"biblioteca/internal/authors"
	"biblioteca/internal/books"
	"biblioteca/internal/collections"
	"biblioteca/internal/covers"
	"biblioteca/internal/external"
	"biblioteca/internal/labels"
	"biblioteca/internal/loans"
	"biblioteca/internal/reading"
	"biblioteca/internal/reports"
	"biblioteca/internal/users"
	"biblioteca/internal/ws"
	"biblioteca/pkg/config"
	"biblioteca/pkg/database"
	"biblioteca/pkg/logger"
)

func main() {
	// Load environment variables from .env if present (optional)
	_ = godotenv.Load()

	logLevel := logger.INFO
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logLevel = logger.LogLevel(level)
	}
	jsonFormat := os.Getenv("LOG_FORMAT") == "json"
	logger.Init(logLevel, jsonFormat, os.Stdout)

	log := logger.GetLogger().WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0")

	dbPath := config.GetEnvOrDefault("DB_PATH", "./data/biblioteca.db")
	db, err := database.Open(dbPath)
	if err != nil {
		log.Error("failed_to_initialize_database", "error", err.Error(), "path", dbPath)
		os.Exit(1)
	}
	defer db.Close()

	// Services
	bookService := books.NewService(db)
	authorService := authors.NewService(db)
	userService := users.NewService(db)
	loanService := loans.NewService(db)
	readingService := reading.NewService(db)
	collectionService := collections.NewService(db)
	reportService := reports.NewService(db)

	labelDir := config.GetEnvOrDefault("LABEL_OUTPUT_DIR", "./data/labels")
	labelService := labels.NewService(db, labels.NewHTMLPrinter(labelDir))

	coverDir := config.GetEnvOrDefault("COVER_DIR", "./data/covers")
	coverStore := covers.NewStore(coverDir)

	searcher := external.NewSearcher(log,
		external.NewOpenLibrarySource(),
		external.NewGoogleBooksSource(),
	)
	importer := external.NewImporter(bookService, authorService)

	// Event hub for the UI
	hub := ws.NewHub(logger.GetLogger().WithContext("component", "ws_hub"))
	go hub.Run()

	// Hourly overdue sweep
	refreshInterval := time.Duration(config.GetEnvInt("LOAN_REFRESH_MINUTES", 60)) * time.Minute
	refresher := loans.NewRefresher(loanService, refreshInterval,
		logger.GetLogger().WithContext("component", "loan_refresher"))
	refresher.Start()
	defer refresher.Stop()

	// Handlers
	bookHandler := books.NewHandler(bookService, hub)
	authorHandler := authors.NewHandler(authorService)
	userHandler := users.NewHandler(userService)
	loanHandler := loans.NewHandler(loanService, hub)
	readingHandler := reading.NewHandler(readingService)
	collectionHandler := collections.NewHandler(collectionService)
	reportHandler := reports.NewHandler(reportService)
	labelHandler := labels.NewHandler(labelService)
	coverHandler := covers.NewHandler(coverStore, bookService)
	externalHandler := external.NewHandler(searcher, importer)

	router := gin.Default()

	frontendURL := config.GetEnvOrDefault("FRONTEND_URL", "http://localhost:3000")
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{frontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/ws", hub.Handle)

	bookGroup := router.Group("/books")
	{
		bookGroup.GET("", bookHandler.GetAll)
		bookGroup.GET("/:id", bookHandler.GetByID)
		bookGroup.POST("", bookHandler.Create)
		bookGroup.PUT("/:id", bookHandler.Update)
		bookGroup.DELETE("/:id", bookHandler.Delete)
		bookGroup.GET("/:id/loans", loanHandler.GetByBook)
		bookGroup.POST("/:id/cover", coverHandler.Upload)
		bookGroup.POST("/:id/reading/start", readingHandler.Start)
		bookGroup.POST("/:id/reading/finish", readingHandler.Finish)
	}

	authorGroup := router.Group("/authors")
	{
		authorGroup.GET("", authorHandler.GetAll)
		authorGroup.GET("/:id", authorHandler.GetByID)
		authorGroup.POST("", authorHandler.Create)
		authorGroup.PUT("/:id", authorHandler.Update)
		authorGroup.DELETE("/:id", authorHandler.Delete)
	}

	userGroup := router.Group("/users")
	{
		userGroup.GET("", userHandler.GetAll)
		userGroup.GET("/:id", userHandler.GetByID)
		userGroup.POST("", userHandler.Create)
		userGroup.PUT("/:id", userHandler.Update)
		userGroup.DELETE("/:id", userHandler.Delete)
		userGroup.GET("/:id/loans", loanHandler.GetByUser)
	}

	loanGroup := router.Group("/loans")
	{
		loanGroup.GET("", loanHandler.GetAll)
		loanGroup.GET("/active", loanHandler.GetActive)
		loanGroup.GET("/overdue", loanHandler.GetOverdue)
		loanGroup.GET("/:id", loanHandler.GetByID)
		loanGroup.POST("", loanHandler.Create)
		loanGroup.POST("/:id/return", loanHandler.Return)
		loanGroup.PUT("/:id/due-date", loanHandler.UpdateDueDate)
		loanGroup.POST("/refresh", loanHandler.Refresh)
	}

	readingGroup := router.Group("/reading")
	{
		readingGroup.GET("/history", readingHandler.History)
		readingGroup.GET("/stats", readingHandler.Statistics)
	}

	collectionGroup := router.Group("/collections")
	{
		collectionGroup.GET("", collectionHandler.GetAll)
		collectionGroup.GET("/:id", collectionHandler.GetByID)
		collectionGroup.POST("", collectionHandler.Create)
		collectionGroup.PUT("/:id", collectionHandler.Update)
		collectionGroup.DELETE("/:id", collectionHandler.Delete)
		collectionGroup.GET("/:id/books", collectionHandler.Books)
		collectionGroup.POST("/:id/books", collectionHandler.AddBook)
		collectionGroup.DELETE("/:id/books/:bookId", collectionHandler.RemoveBook)
	}

	reportGroup := router.Group("/reports")
	{
		reportGroup.GET("/dashboard", reportHandler.Dashboard)
		reportGroup.GET("/genres", reportHandler.Genres)
		reportGroup.GET("/reading-trend", reportHandler.ReadingTrend)
		reportGroup.GET("/top-authors", reportHandler.TopAuthors)
		reportGroup.GET("/loans", reportHandler.LoanStats)
	}

	labelGroup := router.Group("/labels")
	{
		labelGroup.GET("/templates", labelHandler.Templates)
		labelGroup.GET("/pending", labelHandler.Pending)
		labelGroup.POST("/print", labelHandler.Print)
	}

	externalGroup := router.Group("/external")
	{
		externalGroup.GET("/search", externalHandler.Search)
		externalGroup.POST("/import", externalHandler.Import)
	}

	router.GET("/covers", coverHandler.Serve)

	port := config.GetEnvOrDefault("API_PORT", "8080")
	log.Info("api_server_listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("failed_to_start_api_server", "error", err.Error())
		os.Exit(1)
	}
}
