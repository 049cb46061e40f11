package main

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/iafilatov/libfprint-sub001/config"
)

func main() {
	listen := flag.String("listen", ":9090", "address to serve on")
	dbPath := flag.String("db", "gallery.db", "path of the sqlite gallery database")
	logDir := flag.String("logs", "", "directory for rotated log files, empty logs to stdout only")
	flag.Parse()

	if *logDir != "" {
		rl, err := rotatelogs.New(
			filepath.Join(*logDir, "fprint-server.%Y%m%d.log"),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			log.Fatal("Failed to open rotated log:", err)
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rl))
	}

	if err := config.LoadDefaultConfig(); err != nil {
		log.Fatal("Failed to load config:", err)
	}
	config.Config.Workers = runtime.NumCPU()

	gallery, err := OpenGallery(*dbPath)
	if err != nil {
		log.Fatal("Failed to open gallery:", err)
	}
	defer gallery.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now(),
		})
	})

	srv := &server{gallery: gallery}
	app.Post("/match", srv.matchFingerprints)
	app.Post("/enroll", srv.enrollFingerprint)
	app.Post("/identify", srv.identifyFingerprint)

	log.Println("Server starting on", *listen)
	log.Fatal(app.Listen(*listen))
}
