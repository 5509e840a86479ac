package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/admin"
	"github.com/viant/learnsphere/api"
	"github.com/viant/learnsphere/cache"
	"github.com/viant/learnsphere/internal/config"
	"github.com/viant/learnsphere/internal/metrics"
	"github.com/viant/learnsphere/session"
	"github.com/viant/learnsphere/session/hint"
	"github.com/viant/learnsphere/transport/client/rest"
)

func main() {
	conf, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	level := slog.LevelInfo
	if conf.Debug {
		level = slog.LevelDebug
	}
	logger := learnsphere.NewSlogLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli, closeFn, err := newCommandLine(conf, logger, os.Stdout)
	if err != nil {
		logger.Errorf("failed to start: %v", err)
		os.Exit(1)
	}
	err = cli.run(ctx, os.Args)
	closeFn()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func newCommandLine(conf *config.Config, logger learnsphere.Logger, out io.Writer) (*commandLine, func(), error) {
	var hints hint.Store
	var rdb *redis.Client
	if conf.RedisAddr != "" && conf.HintID != "" {
		rdb = redis.NewClient(&redis.Options{Addr: conf.RedisAddr})
		hints = hint.NewRedisStore(rdb, "", 0)
	}
	cli, closeFn, err := newCommandLineWith(conf, logger, out, hints)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}
	return cli, func() {
		closeFn()
		if rdb != nil {
			_ = rdb.Close()
		}
	}, nil
}

func newCommandLineWith(conf *config.Config, logger learnsphere.Logger, out io.Writer, hints hint.Store, clientOptions ...rest.Option) (*commandLine, func(), error) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	var storeOptions = []session.StoreOption{session.WithStoreLogger(logger)}
	if hints != nil && conf.HintID != "" {
		storeOptions = append(storeOptions, session.WithHints(hints, conf.HintID))
	}
	store := session.NewStore(storeOptions...)
	clientOptions = append([]rest.Option{
		rest.WithTimeout(conf.Timeout),
		rest.WithStore(store),
		rest.WithLogger(logger),
		rest.WithMetrics(m),
	}, clientOptions...)
	client, err := rest.New(conf.BaseURL, clientOptions...)
	if err != nil {
		return nil, nil, err
	}
	service := admin.New(api.New(client), store,
		admin.WithLogger(logger),
		admin.WithCache(cache.New(cache.WithLogger(logger), cache.WithMetrics(m))),
	)
	gate := session.NewGate(store, service,
		session.WithRevoke(service.Revoke),
		session.WithLoginRoute(conf.LoginRoute),
		session.WithGateLogger(logger),
		session.WithNavigator(session.NavigatorFunc(func(route string) {
			logger.Infof("session ended, continue at %v", route)
		})),
	)
	cli := &commandLine{service: service, gate: gate, secret: conf.Secret, gatherer: registry, logger: logger, out: out}
	return cli, func() {
		gate.Close()
		service.Close()
	}, nil
}
