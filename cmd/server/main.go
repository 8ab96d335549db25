package main

import (
	"github.com/dwellsight/backend/internal/server"
	"github.com/dwellsight/backend/internal/util"
	"github.com/dwellsight/backend/pkg/logger"
	"github.com/dwellsight/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
