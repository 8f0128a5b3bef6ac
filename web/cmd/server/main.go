// Package main provides a server offering the rotation visualizer's HTTP API.
package main

import (
	"go.viam.com/utils"

	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/web/server"
)

var logger = logging.NewDebugLogger("entrypoint")

func main() {
	utils.ContextualMain(server.RunServer, logger)
}
