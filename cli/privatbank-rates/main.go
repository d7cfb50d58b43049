package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	rates "github.com/malusev998/privatbank-rates"
	"github.com/malusev998/privatbank-rates/cli/cmd"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx, createConfig, os.Args[1:])
	stop()

	if err == nil {
		return
	}

	if !errors.Is(err, rates.ErrDaysOutOfRange) {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	}

	os.Exit(1)
}
