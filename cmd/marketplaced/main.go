package main

import (
	"context"
	"errors"
	"github.com/ZilDuck/lazy-marketplace/internal/config"
	"github.com/ZilDuck/lazy-marketplace/internal/container"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.Init()

	c, err := container.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}
	defer func() { _ = c.Delete() }()

	d, err := c.SafeGetDaemon()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start marketplace")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Execute(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().With(zap.Error(err)).Fatal("Marketplace stopped")
	}

	zap.L().Info("Marketplace Stopped")
}
