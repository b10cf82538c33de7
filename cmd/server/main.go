package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/civictechlab/contrib-api/internal/config"
	api "github.com/civictechlab/contrib-api/internal/http"
	"github.com/civictechlab/contrib-api/internal/identity"
	"github.com/civictechlab/contrib-api/internal/log"
	"github.com/civictechlab/contrib-api/internal/mail"
	"github.com/civictechlab/contrib-api/internal/metrics"
	"github.com/civictechlab/contrib-api/internal/payment"
	"github.com/civictechlab/contrib-api/internal/queue"
	"github.com/civictechlab/contrib-api/internal/repo"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	metrics.MustRegister()

	rdb := repo.NewRedis(cfg.RedisAddr)
	defer rdb.Close()

	store, err := repo.NewStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("sqlite open", zap.Error(err))
	}
	defer store.Close()

	var pub queue.Publisher = queue.NewNoop()
	if cfg.RabbitURL != "" {
		pub, err = queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
	}
	defer pub.Close()

	var sender mail.Sender = mail.LogSender{}
	if cfg.SMTPAddr != "" {
		sender = &mail.SMTPSender{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}
	}

	h := api.NewHandler(
		rdb,
		store,
		identity.NewFacebook(cfg.FacebookGraphURL),
		payment.NewStripe(cfg.StripeKey),
		pub,
		sender,
	)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("contrib-api listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
