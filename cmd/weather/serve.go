package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/area-weather/internal/api/http"
	"github.com/i474232898/area-weather/internal/weather"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve area temperatures over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if port == "" {
		port = cfg.Port
	}

	aggregator, err := newAggregator(cfg, log)
	if err != nil {
		return err
	}

	app := newApp(aggregator)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "port", port)
		errCh <- app.Listen(":" + port)
	}()

	// Wait for termination signal
	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	return nil
}

func newApp(aggregator *weather.Aggregator) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "area-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Batches can take a while with a slow provider.
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "area-weather",
		})
	})

	httpapi.RegisterRoutes(app, aggregator)
	return app
}
