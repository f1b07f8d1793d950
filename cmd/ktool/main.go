package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tyemirov/ktool/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitCode := app.Execute(ctx, os.Args[1:])
	stop()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
