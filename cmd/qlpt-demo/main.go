package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/qlpt/rental-portal/internal/config"
	"github.com/qlpt/rental-portal/internal/logging"
	"github.com/qlpt/rental-portal/server"
	"github.com/qlpt/rental-portal/server/contractrepo"
	"github.com/qlpt/rental-portal/server/roomrepo"
	refreshrepofake "github.com/qlpt/rental-portal/token/refresh/repofake"
	fakeuserrepo "github.com/qlpt/rental-portal/users/repofake"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	for {
		if err := run(*configPath); err != nil {
			log.Error().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run(configPath string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(configPath)
	if err != nil {
		// A broken config will not fix itself on retry
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(c.GetLogLevel(), c.GetLogFormat(), os.Stderr)
	displayAppname(c.GetAppName())

	handler, err := server.New(c, server.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Rooms:         roomrepo.NewInMemoryRepo(),
		Contracts:     contractrepo.NewInMemoryRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
