package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/fsopen/bloglist/internal/blogservice"
	"github.com/fsopen/bloglist/internal/common"
	"github.com/fsopen/bloglist/internal/mailservice"
	"github.com/fsopen/bloglist/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	limiter     *common.KeyedRateLimiter
}

func main() {
	cfg, err := loadConfig(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Environment, cfg.LogLevel)

	dsn := common.DSN(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)

	m, err := common.Migrate(dsn)
	if err != nil {
		logger.Error("failed to migrate the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	m.Close()

	db, err := common.NewDB(dsn, 25, 25, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	broker, err := common.NewMessageBroker(common.BrokerURI(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password))
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupUserExchange(broker)
	if err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	mailer := mailservice.NewMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, mailservice.NewTemplate())

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, broker, cache, cfg.TokenTTL),
		blogService: blogservice.NewBlogService(db, cache),
		mailService: mailservice.NewMailService(broker, mailer, cfg.Mail.Recipient, logger),
		limiter:     common.NewKeyedRateLimiter(cfg.Limiter.RPS, cfg.Limiter.Burst),
	}

	defer app.limiter.Stop()

	err = app.mailService.Start()
	if err != nil {
		logger.Error("failed to start the mail consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.mailService.Close()

	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
