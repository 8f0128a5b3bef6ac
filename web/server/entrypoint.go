// Package server implements the entry point for running the rotviz web server.
package server

import (
	"context"
	"net"
	"os"
	"runtime/pprof"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/rotviz/config"
	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/web"
)

// Arguments for the command.
type Arguments struct {
	ConfigFile  string `flag:"config,usage=server config file"`
	BindAddress string `flag:"bind,usage=address to listen on, overriding the config file"`
	CPUProfile  string `flag:"cpuprofile,usage=write cpu profile to file"`
	Debug       bool   `flag:"debug"`
}

// RunServer is an entry point to starting the web server that can be called by main in a code
// sample or otherwise be used to initialize the server.
func RunServer(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	return Run(ctx, argsParsed, logger)
}

// Run starts the web server with already parsed arguments and blocks until ctx is done.
func Run(ctx context.Context, argsParsed Arguments, logger logging.Logger) (err error) {
	config.InitLoggingSettings(logger, argsParsed.Debug)

	if argsParsed.CPUProfile != "" {
		f, err := os.Create(argsParsed.CPUProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return multierr.Combine(err, f.Close())
		}
		defer func() {
			pprof.StopCPUProfile()
			err = multierr.Combine(err, f.Close())
		}()
	}

	cfg, err := readConfig(ctx, argsParsed, logger)
	if err != nil {
		return err
	}

	if cfg.LogFile != nil {
		fileAppender := logging.NewFileAppender(cfg.LogFile.Path, cfg.LogFile.MaxSizeMB, cfg.LogFile.MaxBackups)
		logger.AddAppender(fileAppender)
		defer func() {
			err = multierr.Combine(err, fileAppender.Close())
		}()
	}
	if err := cfg.ApplyLogging(logger); err != nil {
		logger.Warnw("failed to apply log config", "error", err)
	}
	warnIfExposed(cfg, logger)

	err = web.RunWeb(ctx, cfg, logger)
	if err != nil {
		logger.Errorw("error serving web", "error", err)
	}
	return err
}

// readConfig reads the config file, or uses the defaults when none is given, then applies
// command line overrides.
func readConfig(ctx context.Context, argsParsed Arguments, logger logging.Logger) (*config.Config, error) {
	cfg := config.Default()
	if argsParsed.ConfigFile != "" {
		initialReadCtx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		var err error
		cfg, err = config.Read(initialReadCtx, argsParsed.ConfigFile, logger)
		if err != nil {
			return nil, err
		}
	}
	if argsParsed.Debug {
		cfg.Debug = true
	}
	if argsParsed.BindAddress != "" {
		cfg.Network.BindAddress = argsParsed.BindAddress
		if err := cfg.Network.Validate("network"); err != nil {
			return nil, errors.Wrap(err, "invalid --bind")
		}
	}
	return cfg, nil
}

func warnIfExposed(cfg *config.Config, logger logging.Logger) {
	host, _, err := net.SplitHostPort(cfg.Network.BindAddress)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		logger.Warn("binding to all interfaces; sessions are not authenticated")
	}
}
