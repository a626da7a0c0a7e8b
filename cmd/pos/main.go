package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/cache"
	cartservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/cart/domain/service"
	catalogservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/application/service"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/common/domain"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/config"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/infrastructure/event"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/infrastructure/storage"
	apiclient "github.com/Rifaiiii04/ims-inventory-sub001/pkg/infrastructure/transport"
	orderservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/order/application/service"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/transport"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  "pos",
		Usage: "point-of-sale cart and stock availability terminal",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the POS API server",
				Action: serve,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("pos terminated")
	}
}

func serve(_ *cli.Context) error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := log.StandardLogger()

	backend, closeBackend, err := newCacheBackend(cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	store := cache.NewStore(backend, cfg.CacheTTL, logger)
	dispatcher := newDispatcher(cfg, logger)
	client := apiclient.NewClient(cfg.CatalogURL, cfg.OrderURL, cfg.APITimeout)
	catalog := catalogservice.NewReader(client, store, dispatcher, cfg.RefreshInterval, logger)
	cart := cartservice.NewCart(dispatcher)
	orders := orderservice.NewOrderService(client, cart, catalog, dispatcher, logger)
	server := transport.NewServer(cfg.HTTPAddr, catalog, cart, orders)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return catalog.Run(ctx)
	})
	g.Go(func() error {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting POS API")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		killSignalChan := make(chan os.Signal, 1)
		signal.Notify(killSignalChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-killSignalChan:
			logger.WithField("signal", sig.String()).Info("shutting down")
		case <-ctx.Done():
		}
		cancel()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newCacheBackend(cfg config.Config) (cache.Backend, func(), error) {
	if cfg.MySQLDSN != "" {
		backend, err := storage.NewMySQL(cfg.MySQLDSN, cfg.CacheMaxRows)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() { _ = backend.Close() }, nil
	}
	return storage.NewMemory(cfg.CacheMaxEntries), func() {}, nil
}

func newDispatcher(cfg config.Config, logger log.FieldLogger) domain.EventDispatcher {
	if len(cfg.KafkaBrokers) > 0 {
		logger.WithField("topic", cfg.KafkaTopic).Info("publishing events to kafka")
		return event.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	return event.NewLogDispatcher(logger)
}
