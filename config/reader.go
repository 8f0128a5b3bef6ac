package config

import (
	"bytes"
	"context"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/state"
)

// Read reads a config from the given file. Environment variables written as $VAR or ${VAR} are
// substituted before parsing.
func Read(
	ctx context.Context,
	filePath string,
	logger logging.Logger,
) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", filePath)
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from. The input is JSON5, so comments,
// unquoted keys and trailing commas are allowed.
func FromReader(
	ctx context.Context,
	originalPath string,
	r io.Reader,
	logger logging.Logger,
) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := Config{
		Defaults:       state.DefaultSettings(),
		ConfigFilePath: originalPath,
	}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	logger.CDebugw(ctx, "read config",
		"path", originalPath,
		"bind_address", cfg.Network.BindAddress,
		"heartbeat_window", cfg.Session.heartbeatWindow,
	)
	return &cfg, nil
}
