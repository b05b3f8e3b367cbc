package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/sim-reporting/pkg/runtime/terminal"
	"github.com/rs/zerolog"
)

var version = "dev"

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cli := terminal.NewCLI(terminal.Options{
		Output:  os.Stdout,
		Version: version,
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
