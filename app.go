package main

import (
	"context"
	"errors"

	"github.com/elmanelman/judge-submit/config"
	"github.com/elmanelman/judge-submit/controller"
	"github.com/elmanelman/judge-submit/journal"
	"github.com/elmanelman/judge-submit/judge"
	"github.com/elmanelman/judge-submit/notify"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg    config.ClientConfig
	logger *zap.Logger
	client *judge.Client

	journal  *journal.Journal
	notifier *notify.RedisNotifier
	redis    *redis.Client
}

func newApp(configPath string) (*app, error) {
	a := &app{}
	if err := a.cfg.LoadFromFile(configPath); err != nil {
		return nil, err
	}
	if err := a.setupLogger(); err != nil {
		return nil, err
	}

	client, err := judge.NewClient(a.cfg.Judge, a.logger)
	if err != nil {
		return nil, err
	}
	a.client = client
	return a, nil
}

func (a *app) setupLogger() error {
	logger, err := a.cfg.LoggerConfig.Build()
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) openJournal() error {
	if !a.cfg.Journal.Enabled {
		return nil
	}
	j, err := journal.Open(a.cfg.Journal, a.logger)
	if err != nil {
		return err
	}
	a.journal = j
	return nil
}

func (a *app) connectNotifier(ctx context.Context) error {
	if !a.cfg.Notify.Enabled() {
		return nil
	}
	n, client, err := notify.Dial(ctx, a.cfg.Notify, a.logger)
	if err != nil {
		return err
	}
	a.notifier = n
	a.redis = client
	return nil
}

// observers opens the outcome sinks. A sink that cannot be reached is
// logged and left out; submitting still works without it.
func (a *app) observers(ctx context.Context) []controller.Observer {
	var observers []controller.Observer
	if err := a.openJournal(); err != nil {
		a.logger.Warn("journal disabled", zap.Error(err))
	} else if a.journal != nil {
		observers = append(observers, a.journal)
	}
	if err := a.connectNotifier(ctx); err != nil {
		a.logger.Warn("notifier disabled", zap.Error(err))
	} else if a.notifier != nil {
		observers = append(observers, a.notifier)
	}
	return observers
}

func (a *app) Close() error {
	var errs []error
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}
