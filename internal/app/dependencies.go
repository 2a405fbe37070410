package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/cart"
	"github.com/vladislavdragonenkov/markethub/internal/catalog"
	"github.com/vladislavdragonenkov/markethub/internal/domain"
	"github.com/vladislavdragonenkov/markethub/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/markethub/internal/metrics"
	"github.com/vladislavdragonenkov/markethub/internal/remote"
	"github.com/vladislavdragonenkov/markethub/internal/session"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Storage  domain.KeyValueStore
	Session  *session.Manager
	Catalog  *catalog.Catalog
	API      *remote.Client
	Producer *kafka.Producer
	Metrics  *metrics.CartMetrics
	Cart     *cart.Store
	Logger   *log.Entry
}

// NewDependencies открывает хранилище, поднимает каталог и собирает хранилище корзины.
// Kafka и удалённый API опциональны: без них корзина работает локально.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	kv, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	deps := &Dependencies{
		Storage: kv,
		Session: session.NewManager(kv, logger.WithField("component", "session")),
		Metrics: metrics.NewCartMetrics(),
		Logger:  logger,
	}

	if cfg.APIBaseURL != "" {
		deps.API = remote.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger.WithField("component", "remote-api"))
	}

	deps.Catalog, err = loadCatalog(ctx, cfg.Catalog, deps.API, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}

	// Ошибка Kafka не фатальна, initKafkaProducer её уже залогировал.
	deps.Producer, _ = initKafkaProducer(cfg.Kafka, logger)

	storeDeps := cart.Deps{
		Storage: kv,
		Catalog: deps.Catalog,
		Session: deps.Session,
		Metrics: deps.Metrics,
		Logger:  logger.WithField("component", "cart-store"),
	}
	if deps.API != nil {
		storeDeps.API = deps.API
	}
	if deps.Producer != nil {
		storeDeps.Publisher = deps.Producer
	}

	deps.Cart, err = cart.New(ctx, storeDeps)
	if err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

// loadCatalog берёт каталог из файла; без файла пробует удалённый API.
// Недоступный API не мешает запуску: каталог остаётся пустым.
func loadCatalog(ctx context.Context, cfg CatalogConfig, api *remote.Client, logger *log.Entry) (*catalog.Catalog, error) {
	if cfg.File != "" {
		c, err := catalog.LoadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.WithField("products", c.Len()).Info("catalog loaded from file")
		return c, nil
	}

	c := catalog.New(nil)
	if api == nil {
		return c, nil
	}
	if err := c.Refresh(ctx, api); err != nil {
		logger.WithError(err).Warn("failed to load catalog from remote api")
		return c, nil
	}
	logger.WithField("products", c.Len()).Info("catalog loaded from remote api")
	return c, nil
}

// Close освобождает producer и хранилище.
func (d *Dependencies) Close() {
	closeKafka(d.Producer, d.Logger)
	if d.Storage != nil {
		if err := d.Storage.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close storage")
		}
	}
}
