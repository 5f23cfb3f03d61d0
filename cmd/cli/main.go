package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/authdesk/internal/buildinfo"
	"github.com/dmitrijs2005/authdesk/internal/client/cli"
	"github.com/dmitrijs2005/authdesk/internal/client/config"
	"github.com/dmitrijs2005/authdesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
