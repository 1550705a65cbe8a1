package main

import (
	"strconv"

	_ "github.com/joho/godotenv/autoload"

	"gitlab.com/anderson.palacios/portfolio-service/internal/config"
	"gitlab.com/anderson.palacios/portfolio-service/internal/logger"
	"gitlab.com/anderson.palacios/portfolio-service/internal/notify"
	"gitlab.com/anderson.palacios/portfolio-service/internal/service"
)

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost DBUSER=anderson DBPWD=secret GIN_MODE=release go run main.go
//
// The service starts without DBHOST/DBUSER or RESEND_API_KEY; the affected
// endpoints then answer with a configuration error instead of the process
// refusing to boot.
func main() {
	logger.InitLogger()
	defer func() { _ = logger.Close() }()
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("Could not load configuration", "error", err)
	}
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		log.Fatalw("Could not parse PORT", "port", cfg.Server.Port, "error", err)
	}

	sqlDB := service.CreateDatabase(cfg.Database)
	service.SetupDatabaseWrapper(sqlDB)

	if cfg.Email.Configured() {
		service.SetupMailer(notify.NewMailer(cfg.Email))
	} else {
		log.Warnw("No contact relay configured, /api/send-email will answer with errors")
	}

	router := service.SetupHttpRouter(cfg.Server.AllowedOrigins)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalw("Server stopped", "error", err)
	}
}
