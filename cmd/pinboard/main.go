package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pinboard/internal/app"
	"pinboard/pkg/config"
	"pinboard/pkg/logger"
	"pinboard/pkg/shutdown"
)

// build metadata - set via ldflags during build/release
var version = "dev"

func main() {
	_ = godotenv.Load(".env")

	fl := config.ParseCommandFlags()
	eff, err := config.LoadEffective(fl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pinboard: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithLevel(eff.Config.Logging.Level)

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	a := app.New(eff, version)
	if err := a.Run(ctx); err != nil {
		logger.Error("server_exit", "error", err)
		os.Exit(1)
	}
}
