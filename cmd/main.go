package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"notesai/notesai/broker"
	"notesai/notesai/config"
	"notesai/notesai/database"
	"notesai/notesai/middleware"
	"notesai/notesai/routes"
	"notesai/notesai/services"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "notesai",
		Short:        "Notes backend with AI summaries",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default $CONFIG_FILE)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(configPath)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrate(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Setup(cfg)
	if err != nil {
		return err
	}
	db.Close()
	return nil
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Setup(cfg)
	if err != nil {
		log.Printf("Failed to initialize database: %v", err)
		return err
	}
	defer db.Close()

	webSocketService := services.NewWebSocketService(middleware.ParseOrigins(cfg.AllowedOrigins))
	services.WebSocketServiceInstance = webSocketService

	// The API keeps serving without NATS; events stay pending in the outbox.
	producer, err := broker.InitProducer(cfg.NatsURL)
	if err != nil {
		log.Printf("Warning: Failed to initialize NATS producer: %v", err)
		log.Println("EventHandler service is disabled due to NATS unavailability")
	} else {
		defer producer.Close()

		eventHandlerService := services.NewEventHandlerService(db, producer, time.Duration(cfg.EventPollIntervalMs)*time.Millisecond)
		services.EventHandlerServiceInstance = eventHandlerService
		eventHandlerService.Start()
		defer eventHandlerService.Stop()

		consumer, err := broker.InitConsumer(cfg.NatsURL, []string{broker.NoteSubject}, "websocket")
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS consumer: %v", err)
		} else {
			defer consumer.Close()
			webSocketService.SetInputChannel(consumer.Messages())
		}
	}

	webSocketService.Start()
	defer webSocketService.Stop()

	summaryService := services.NewSummaryService(cfg)
	services.SummaryServiceInstance = summaryService

	userService := &services.UserService{}
	services.UserServiceInstance = userService

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours, userService)
	services.AuthServiceInstance = authService

	tagService := services.NewTagService()
	services.TagServiceInstance = tagService

	noteService := services.NewNoteService(tagService, summaryService)
	services.NoteServiceInstance = noteService

	limiter := middleware.NewRateLimiter(cfg.SummarizeRatePerMinute, cfg.SummarizeBurst, time.Hour)
	defer limiter.Stop()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	routes.SetupRouter(router, db, routes.Services{
		Auth:       authService,
		Users:      userService,
		Notes:      noteService,
		Tags:       tagService,
		Summarizer: summaryService,
		WebSocket:  webSocketService,
	}, limiter, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("API server is running on port %s", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Printf("Failed to start server: %v", err)
			return err
		}
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
