package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hiveswitch/companion/server"
)

func main() {
	configPath := flag.String("config", "companion.yml", "path to the configuration file")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build application")
	}

	if err = app.Start(); err != nil {
		logrus.WithError(err).Fatal("Failed to start application")
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = app.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Shutdown did not complete cleanly")
	}
}
