package main

import (
	"fmt"
	"os"

	"github.com/geoscope/geoscope/internal/cli"
	"github.com/geoscope/geoscope/internal/logger"
)

func main() {
	logger.Init(logger.ParseLogLevel(os.Getenv("GEOSCOPE_LOG_LEVEL")), os.Stdout)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
