package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"zamflow/api"
	"zamflow/internal/analytics"
	"zamflow/internal/auth"
	"zamflow/internal/config"
	"zamflow/internal/events"
	"zamflow/internal/identity"
	"zamflow/internal/products"
	"zamflow/internal/sales"
	"zamflow/internal/store"
	"zamflow/internal/users"
)

// app holds the wired services and the resources to release on shutdown.
type app struct {
	deps    api.Deps
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type storages struct {
	users       users.Storage
	products    products.Storage
	sales       sales.Storage
	credentials identity.CredentialStore
}

func openStorages(ctx context.Context, cfg config.StorageConfig, a *app) (storages, error) {
	if cfg.Driver == "memory" {
		return storages{
			users:       users.NewLocalStorage(),
			products:    products.NewLocalStorage(),
			sales:       sales.NewLocalStorage(),
			credentials: identity.NewMemoryCredentials(),
		}, nil
	}
	db, err := store.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return storages{}, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	a.closers = append(a.closers, db.Close)
	return storages{
		users:       users.NewSQLStorage(db),
		products:    products.NewSQLStorage(db),
		sales:       sales.NewSQLStorage(db),
		credentials: identity.NewSQLCredentials(db),
	}, nil
}

func openBroker(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (events.Broker, error) {
	if cfg.URL == "" {
		return events.NewMemoryBroker(), nil
	}
	rc := events.RedisConfig{
		URL:          cfg.URL,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	}
	client, err := rc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return events.NewRedisBroker(client, logger), nil
}

// buildApp wires storage, events, identity and services from cfg and makes
// sure the configured administrator exists.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		_ = a.Close()
		return nil, err
	}

	st, err := openStorages(ctx, cfg.Storage, a)
	if err != nil {
		return fail(err)
	}

	broker, err := openBroker(ctx, cfg.Redis, logger)
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, broker.Close)

	var provider identity.Provider
	switch cfg.Identity.Provider {
	case "toolkit":
		tp := identity.NewToolkitProvider(cfg.Identity.BaseURL, cfg.Identity.APIKey, logger)
		a.closers = append(a.closers, tp.Close)
		provider = tp
	default:
		provider = identity.NewLocalProvider(st.credentials, logger)
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fail(err)
	}

	usersSvc := users.NewService(st.users, broker, logger)
	productsSvc := products.NewService(st.products, broker, logger)
	salesSvc := sales.NewService(st.sales, productsSvc, broker, logger)

	a.deps = api.Deps{
		Users:     usersSvc,
		Products:  productsSvc,
		Sales:     salesSvc,
		Analytics: analytics.NewService(salesSvc, productsSvc, logger),
		Identity:  provider,
		Tokens:    tokens,
		Events:    broker,
		Logger:    logger,
	}

	if err := bootstrapAdmin(ctx, cfg.Admin, provider, usersSvc); err != nil {
		if cfg.Identity.Provider != "toolkit" {
			return fail(err)
		}
		// The hosted provider may already hold the account under another
		// password; the service is still usable.
		logger.Warn("failed to bootstrap admin", zap.String("email", cfg.Admin.Email), zap.Error(err))
	}
	return a, nil
}

func bootstrapAdmin(ctx context.Context, cfg config.AdminConfig, provider identity.Provider, usersSvc *users.Service) error {
	if cfg.Email == "" {
		return nil
	}
	id, err := identity.Ensure(ctx, provider, cfg.Email, cfg.Password)
	if err != nil {
		return fmt.Errorf("admin identity: %w", err)
	}
	if _, err := usersSvc.EnsureAdmin(ctx, id.UID, id.Email); err != nil {
		return fmt.Errorf("admin profile: %w", err)
	}
	return nil
}
