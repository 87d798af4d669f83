package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/squawkbot/squawk"
	"github.com/squawkbot/squawk/cheer"
	"github.com/squawkbot/squawk/telemetry"
	"github.com/squawkbot/squawk/timers"
)

const reconnectDelay = 5 * time.Second

func main() {
	var configPath string
	var tallyPath string
	var displayPath string
	var debug bool
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.StringVar(&tallyPath, "tally", "bits.json", "path to the cheer tally file")
	flag.StringVar(&displayPath, "display", "display.txt", "path to the rendered cheer display file")
	flag.BoolVar(&debug, "debug", false, "log at debug level")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			panic(err)
		}
		configPath = path.Join(configDir, "squawk", "squawk.scfg")
	}

	cfg, err := squawk.LoadConfigFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load the configuration file at %q: %s\n", configPath, err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if debug || cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	telemetry.Init()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("metrics server stopped", slog.Any("err", err))
			}
		}()
	}

	scanner, err := cheer.NewScanner(tallyPath, displayPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load the cheer tally at %q: %s\n", tallyPath, err)
		os.Exit(1)
	}

	bot := squawk.NewBot(cfg)
	if err := bot.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %s\n", err)
		os.Exit(1)
	}

	// Announce the cheer record to chat every 15 minutes.
	announce := func(arg any) {
		sc, ok := arg.(*cheer.Scanner)
		if !ok {
			return
		}
		if err := bot.Say(sc.Display.Render(sc.Tally())); err != nil {
			slog.Error("announce failed", slog.Any("err", err))
		}
	}
	sched := bot.Timers()
	if _, err := sched.AddFixed(timers.Minutes, 15, true, announce, scanner); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register the announce timer: %s\n", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	var quitting atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		quitting.Store(true)
		bot.Quit("Bye.")
	}()

	for {
		msgs, err := bot.Incoming()
		if err != nil {
			if quitting.Load() {
				slog.Info("disconnected")
				return
			}
			slog.Error("connection lost", slog.Any("err", err))
			time.Sleep(reconnectDelay)
			if quitting.Load() {
				return
			}
			if err := bot.Start(context.Background()); err != nil {
				slog.Error("reconnect failed", slog.Any("err", err))
			}
			continue
		}
		for i := range msgs {
			if _, err := scanner.Scan(&msgs[i]); err != nil {
				slog.Error("tally update failed", slog.Any("err", err))
			}
		}
	}
}
