package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/authdesk/internal/buildinfo"
	"github.com/dmitrijs2005/authdesk/internal/logging"
	"github.com/dmitrijs2005/authdesk/internal/server"
	"github.com/dmitrijs2005/authdesk/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := server.NewApp(cfg, logger)
	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}

}
