package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/config"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/httpapi"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/memstore"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/notify"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/reminder"
)

// app owns every long-running component of the service.
type app struct {
	cfg         config.Config
	log         *zap.Logger
	coordinator *coordinator.Coordinator
	dispatcher  *notify.Dispatcher
	sweeper     *reminder.Sweeper
	server      *httpapi.Server
	closers     []func()
}

// storage bundles the ports one backend provides.
type storage struct {
	catalog   shell.CatalogStore
	borrowers shell.BorrowerDirectory
	loans     shell.LoanRepository
	journal   notify.Journal
	seed      seedTarget
	close     func()
}

// memorySeed adapts the in-memory stores to seedTarget.
type memorySeed struct {
	catalog   *memstore.Catalog
	directory *memstore.Directory
}

func (m memorySeed) AddItem(_ context.Context, item core.Item) error {
	return m.catalog.AddItem(item)
}

func (m memorySeed) AddBorrower(_ context.Context, borrower core.Borrower) error {
	return m.directory.AddBorrower(borrower)
}

// newApp wires storage, delivery, the coordinator, the reminder loop and the REST adapter.
// A nil metrics collector disables metrics.
func newApp(ctx context.Context, cfg config.Config, log *zap.Logger, metrics shell.MetricsCollector) (*app, error) {
	a := &app{cfg: cfg, log: log}
	logger := config.NewLoggerAdapter(log)

	store, err := a.openStorage(ctx, logger, metrics)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	if cfg.Storage.SeedFile != "" {
		if err = a.seed(ctx, store.seed); err != nil {
			a.close()
			return nil, err
		}
	}

	subscribers, err := a.subscribers(logger, store)
	if err != nil {
		a.close()
		return nil, err
	}

	dispatcherOptions := []notify.Option{
		notify.WithRetryOptions(cfg.Delivery.RetryOptions()...),
		notify.WithContextualLogger(logger),
	}
	ledgerOptions := []inventory.Option{inventory.WithContextualLogger(logger)}
	coordinatorOptions := []coordinator.Option{
		coordinator.WithSettings(cfg.Circulation.CoordinatorSettings()),
		coordinator.WithContextualLogger(logger),
	}
	sweeperOptions := []reminder.Option{
		reminder.WithWindowDays(cfg.Circulation.DueSoonWindowDays),
		reminder.WithContextualLogger(logger),
	}

	if metrics != nil {
		dispatcherOptions = append(dispatcherOptions, notify.WithMetrics(metrics))
		ledgerOptions = append(ledgerOptions, inventory.WithMetrics(metrics))
		coordinatorOptions = append(coordinatorOptions, coordinator.WithMetrics(metrics))
		sweeperOptions = append(sweeperOptions, reminder.WithMetrics(metrics))
	}

	if a.dispatcher, err = notify.NewDispatcher(subscribers, dispatcherOptions...); err != nil {
		a.close()
		return nil, err
	}

	ledger, err := inventory.NewLedger(ledgerOptions...)
	if err != nil {
		a.close()
		return nil, err
	}

	fines, err := finepolicy.NewCalculatorFromName(cfg.Circulation.FinePolicy, cfg.Circulation.FineSettings())
	if err != nil {
		a.close()
		return nil, err
	}

	a.coordinator, err = coordinator.NewCoordinator(
		store.catalog,
		store.borrowers,
		store.loans,
		a.dispatcher,
		ledger,
		fines,
		coordinatorOptions...,
	)
	if err != nil {
		a.close()
		return nil, err
	}

	if a.sweeper, err = reminder.NewSweeper(store.loans, a.dispatcher, sweeperOptions...); err != nil {
		a.close()
		return nil, err
	}

	if cfg.Server.Enabled {
		handler, handlerErr := httpapi.New(
			a.coordinator,
			log.Named("http"),
			httpapi.WithRequestsPerSecond(cfg.Server.RequestsPerSecond),
			httpapi.WithDueSoonWindowDays(cfg.Circulation.DueSoonWindowDays),
		)
		if handlerErr != nil {
			a.close()
			return nil, handlerErr
		}

		a.server = httpapi.NewServer(httpapi.ServerSettings{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}, handler.NewRouter())
	}

	return a, nil
}

func (a *app) openStorage(ctx context.Context, logger *config.LoggerAdapter, metrics shell.MetricsCollector) (storage, error) {
	if a.cfg.Storage.Backend != config.StoragePostgres {
		catalog, err := memstore.NewCatalog()
		if err != nil {
			return storage{}, err
		}

		directory, err := memstore.NewDirectory()
		if err != nil {
			return storage{}, err
		}

		return storage{
			catalog:   catalog,
			borrowers: directory,
			loans:     memstore.NewLoanStore(),
			seed:      memorySeed{catalog: catalog, directory: directory},
			close:     func() {},
		}, nil
	}

	options := []postgresengine.Option{postgresengine.WithContextualLogger(logger)}
	if metrics != nil {
		options = append(options, postgresengine.WithMetrics(metrics))
	}

	store, closeDB, err := config.NewPostgresStore(ctx, a.cfg.Postgres, options...)
	if err != nil {
		return storage{}, err
	}

	if a.cfg.Postgres.EnsureSchema {
		if err = store.EnsureSchema(ctx); err != nil {
			closeDB()
			return storage{}, err
		}
	}

	return storage{
		catalog:   store,
		borrowers: store,
		loans:     store,
		journal:   store,
		seed:      store,
		close:     closeDB,
	}, nil
}

func (a *app) seed(ctx context.Context, target seedTarget) error {
	seed, err := readSeedFile(a.cfg.Storage.SeedFile)
	if err != nil {
		return fmt.Errorf("reading seed file %s: %w", a.cfg.Storage.SeedFile, err)
	}

	if err = seed.apply(ctx, target); err != nil {
		return err
	}

	a.log.Info("seed loaded",
		zap.String("file", a.cfg.Storage.SeedFile),
		zap.Int("items", len(seed.Items)),
		zap.Int("borrowers", len(seed.Borrowers)),
	)

	return nil
}

// subscribers always logs and mails; Kafka and the journal are added when their backend is configured.
func (a *app) subscribers(logger *config.LoggerAdapter, store storage) ([]shell.Subscriber, error) {
	loggingSubscriber, err := notify.NewLoggingSubscriber(logger)
	if err != nil {
		return nil, err
	}

	emailSubscriber, err := notify.NewEmailSubscriber(store.borrowers, notify.NewLogMailer(logger))
	if err != nil {
		return nil, err
	}

	subscribers := []shell.Subscriber{loggingSubscriber, emailSubscriber}

	if store.journal != nil {
		journalSubscriber, journalErr := notify.NewJournalSubscriber(store.journal)
		if journalErr != nil {
			return nil, journalErr
		}

		subscribers = append(subscribers, journalSubscriber)
	}

	if a.cfg.KafkaEnabled() {
		kafkaSubscriber, kafkaErr := a.kafkaSubscriber()
		if kafkaErr != nil {
			return nil, kafkaErr
		}

		subscribers = append(subscribers, kafkaSubscriber)
	}

	return subscribers, nil
}

func (a *app) kafkaSubscriber() (*notify.KafkaSubscriber, error) {
	producer, err := notify.NewKafkaProducer(notify.KafkaConfig{Addrs: a.cfg.Kafka.Brokers})
	if err != nil {
		return nil, fmt.Errorf("connecting to kafka: %w", err)
	}

	subscriber, err := notify.NewKafkaSubscriber(producer, a.cfg.Kafka.Topic)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}

	a.closers = append(a.closers, func() {
		if closeErr := subscriber.Close(); closeErr != nil {
			a.log.Warn("closing kafka producer failed", zap.Error(closeErr))
		}
	})

	return subscriber, nil
}

// run blocks until ctx is done or a component fails, then stops the HTTP server,
// drains the notification queue and releases all resources.
func (a *app) run(ctx context.Context) error {
	defer a.close()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		// delivery outlives the signal so the queue can drain after the server stopped
		return a.dispatcher.Run(context.WithoutCancel(ctx))
	})

	if a.cfg.Reminder.Enabled {
		group.Go(func() error {
			err := a.sweeper.Run(groupCtx, a.cfg.Reminder.Interval)
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		})
	}

	if a.server != nil {
		group.Go(func() error {
			a.log.Info("http server listening", zap.String("addr", a.server.Addr()))
			return a.server.Run()
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()

		a.log.Info("shutting down")

		var stopErr error
		if a.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
			stopErr = a.server.Stop(shutdownCtx)
			cancel()
		}

		a.dispatcher.Close()
		a.log.Info("notification queue closed", zap.Int("pending", a.dispatcher.Pending()))

		return stopErr
	})

	return group.Wait()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}

	a.closers = nil
}

// shutdownTelemetry flushes the meter provider within a bounded time.
func shutdownTelemetry(log *zap.Logger, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		log.Warn("shutting down telemetry failed", zap.Error(err))
	}
}
