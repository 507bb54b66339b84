// Package main is the entry point for the indictrans Lambda function.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"codeberg.org/snonux/indictrans/internal/cli"
	"codeberg.org/snonux/indictrans/internal/handler"
	"codeberg.org/snonux/indictrans/internal/logging"
	"codeberg.org/snonux/indictrans/internal/processor"
)

func main() {
	// Configuration comes from INDICTRANS_* and the API key variables
	cli.InitConfig(os.Getenv("INDICTRANS_CONFIG"))

	settings, err := cli.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// CloudWatch ingests JSON lines
	logger, err := logging.New("lambda", settings.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	proc, err := processor.NewProcessor(settings, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create processor")
	}

	lambda.Start(handler.New(proc).Invoke)
}
