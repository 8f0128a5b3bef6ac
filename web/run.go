package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"go.viam.com/rotviz/config"
	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/render"
	"go.viam.com/rotviz/session"
)

// shutdownTimeout bounds how long in-flight requests may take once the server is stopping.
const shutdownTimeout = 5 * time.Second

// RunWeb listens on the configured bind address and serves until ctx is done.
func RunWeb(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	listener, err := net.Listen("tcp", cfg.Network.BindAddress)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", cfg.Network.BindAddress)
	}
	return Serve(ctx, listener, cfg, logger)
}

// Serve runs the API on listener until ctx is done. It owns the session manager and, when the
// config came from a file, watches that file and applies changes to logging, session expiry and
// the defaults of new sessions. The listener is closed on return.
func Serve(ctx context.Context, listener net.Listener, cfg *config.Config, logger logging.Logger) (err error) {
	manager, err := session.NewManager(cfg.Session.ManagerOptions(), logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, manager.Close())
	}()
	if err := manager.Start(); err != nil {
		return err
	}

	svc := New(manager, Options{
		Defaults:           cfg.Defaults,
		CORSAllowedOrigins: cfg.Network.CORSAllowedOrigins,
		Preview:            render.DefaultOptions(),
		SessionRate:        rate.Limit(cfg.Network.SessionRate),
		SessionBurst:       cfg.Network.SessionBurst,
	}, logger.Sublogger("web"))

	httpServer := &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ErrorLog:          zap.NewStdLog(logger.Desugar()),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if cfg.ConfigFilePath != "" {
		g.Go(func() error {
			return config.Watch(ctx, cfg.ConfigFilePath, logger, func(newCfg *config.Config) {
				applyConfig(newCfg, svc, manager, logger)
			})
		})
	}

	logger.Infow("serving", "url", "http://"+listener.Addr().String())
	return g.Wait()
}

// applyConfig applies the parts of a changed config that do not need a restart.
func applyConfig(cfg *config.Config, svc *Service, manager *session.Manager, logger logging.Logger) {
	if err := cfg.ApplyLogging(logger); err != nil {
		logger.Warnw("failed to apply log config", "error", err)
	}
	manager.SetHeartbeatWindow(cfg.Session.ManagerOptions().HeartbeatWindow)
	svc.SetDefaults(cfg.Defaults)
	svc.SetSessionRate(rate.Limit(cfg.Network.SessionRate), cfg.Network.SessionBurst)
	logger.Infow("applied config change", "path", cfg.ConfigFilePath)
}
