package main

import (
	"os"

	"feeadmin_go/config"
	"feeadmin_go/database"
	"feeadmin_go/database/seeders"
	"feeadmin_go/middleware"
	"feeadmin_go/routes"
	"feeadmin_go/services"
	"feeadmin_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func init() {
	setupLogging()

	config.LoadConfig()
	database.Connect()

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		seeders.SeedAll()
		os.Exit(0)
	}

	// Flush write-behind activity logs and archive old ones in the background
	logArchiveService := services.NewLogArchiveService()
	logArchiveService.StartLogMaintenanceScheduler()
}

func main() {
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Nightly overdue scan and monthly report archive
	overdueScheduler := services.NewOverdueScheduler(wsHub)
	overdueScheduler.Start()
	reportArchive := services.NewReportArchiveService()
	reportArchive.Start()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(config.AppConfig.MaxBodySize),
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.LogActivityMiddleware())

	routes.SetupRoutes(app, wsHub)

	port := config.AppConfig.Port
	logrus.WithField("port", port).Info("CampusFee API starting")
	if err := app.Listen(":" + port); err != nil {
		logrus.WithError(err).Fatal("Server failed to start")
	}
}

// setupLogging configures the logging system. Runs before config loading, so
// it reads the environment directly.
func setupLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	levelName := os.Getenv("LOG_LEVEL")
	if levelName == "" {
		levelName = "info"
	}
	if level, err := logrus.ParseLevel(levelName); err == nil {
		logrus.SetLevel(level)
	}

	if os.Getenv("APP_ENV") == "production" {
		if err := os.MkdirAll("logs", 0755); err == nil {
			file, err := os.OpenFile("logs/app.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err == nil {
				logrus.SetOutput(file)
				return
			}
		}
	}
	logrus.SetOutput(os.Stdout)
}

// customErrorHandler keeps error payloads consistent with the controllers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if code >= 500 {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("Unhandled request error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
