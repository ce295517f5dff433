package main

import (
	"os"

	"github.com/Lumos-Labs-HQ/shopgen/cmd"
	"github.com/Lumos-Labs-HQ/shopgen/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.ErrorLogger.Error(err)
		os.Exit(1)
	}
}
