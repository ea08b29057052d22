package appstate

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"repoapi/internal/config"
	"repoapi/internal/model"
	"repoapi/internal/repository"
	"repoapi/internal/repository/cached"
	"repoapi/internal/repository/memory"
	"repoapi/internal/repository/objectstore"
	"repoapi/internal/repository/sqldb"
	"repoapi/internal/storage"
)

// Resources are the opened connections a State may bind backends to.
// Only the ones named by the store configuration need to be set.
type Resources struct {
	Postgres      *sql.DB
	SQLite        *sql.DB
	Objects       storage.Storage
	Cache         cached.Client
	CacheTTL      time.Duration
	LookupTimeout time.Duration
}

// sources constructs each backend flavour for one entity kind.
type sources[E any] struct {
	memory func() repository.Backend[E]
	sql    func(db *sql.DB, d sqldb.Dialect, timeout time.Duration) repository.Backend[E]
	object func(s storage.Storage) repository.Backend[E]
}

// Build binds one backend per entity kind as named by cfg. The result is fixed for the
// life of the process; there is no way to rebind a kind afterwards.
func Build(cfg config.StoreConfig, res Resources, logger *zap.Logger, metrics *repository.Metrics) (*State, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mem := memory.NewStore()

	users, err := bind(KindUser, cfg.UserBackendName(), sources[model.User]{
		memory: func() repository.Backend[model.User] { return mem.Users() },
		sql: func(db *sql.DB, d sqldb.Dialect, timeout time.Duration) repository.Backend[model.User] {
			return sqldb.Users(db, d, timeout)
		},
		object: func(s storage.Storage) repository.Backend[model.User] { return objectstore.Users(s) },
	}, res, logger, metrics)
	if err != nil {
		return nil, err
	}

	items, err := bind(KindItem, cfg.ItemBackendName(), sources[model.Item]{
		memory: func() repository.Backend[model.Item] { return mem.Items() },
		sql: func(db *sql.DB, d sqldb.Dialect, timeout time.Duration) repository.Backend[model.Item] {
			return sqldb.Items(db, d, timeout)
		},
		object: func(s storage.Storage) repository.Backend[model.Item] { return objectstore.Items(s) },
	}, res, logger, metrics)
	if err != nil {
		return nil, err
	}

	return New(users, items), nil
}

func bind[E any](kind, name string, src sources[E], res Resources, logger *zap.Logger, metrics *repository.Metrics) (repository.Repository[E], error) {
	var b repository.Backend[E]
	switch name {
	case config.BackendMemory:
		b = src.memory()
	case config.BackendPostgres:
		if res.Postgres == nil {
			return nil, fmt.Errorf("%s backend %q: no postgres connection", kind, name)
		}
		b = src.sql(res.Postgres, sqldb.Postgres, res.LookupTimeout)
	case config.BackendSQLite:
		if res.SQLite == nil {
			return nil, fmt.Errorf("%s backend %q: no sqlite connection", kind, name)
		}
		b = src.sql(res.SQLite, sqldb.SQLite, res.LookupTimeout)
	case config.BackendObject:
		if res.Objects == nil {
			return nil, fmt.Errorf("%s backend %q: no object storage", kind, name)
		}
		b = src.object(res.Objects)
	default:
		return nil, fmt.Errorf("%s backend %q: unknown backend", kind, name)
	}

	if res.Cache != nil {
		b = cached.New(b, res.Cache, kind, res.CacheTTL, logger)
	}

	logger.Info("repository bound", zap.String("kind", kind), zap.String("backend", name), zap.Bool("cached", res.Cache != nil))

	return repository.Bind(b, repository.Boundary{
		Kind:    kind,
		Backend: name,
		Logger:  logger,
		Metrics: metrics,
	}), nil
}
