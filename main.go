package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MatrixETF/SingleAsset/cmd"
)

func main() {
	// Interrupting cancels the running task; submitted transactions are not rolled back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
