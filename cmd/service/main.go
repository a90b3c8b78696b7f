package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/egandro/thermomap/pkg/buildings"
	"github.com/egandro/thermomap/pkg/config"
	"github.com/egandro/thermomap/pkg/logger"
	"github.com/egandro/thermomap/pkg/service"
)

type flags struct {
	configFile          string
	host                string
	port                int
	logFile             string
	logLevel            string
	buildingsFile       string
	insecureAllowRemote bool
	toStdout            bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*flags, error) {
	f := &flags{}
	fs.StringVar(&f.configFile, "config", config.DefaultConfigFilename, "Path to config file")
	fs.StringVar(&f.host, "host", "", "HTTP service host")
	fs.IntVar(&f.port, "port", 0, "HTTP service port")
	fs.StringVar(&f.logFile, "log-file", "", "Path to log file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, notice, warn, error)")
	fs.StringVar(&f.buildingsFile, "buildings", "", "Path to the buildings GeoJSON file")
	fs.BoolVar(&f.insecureAllowRemote, "insecure-allow-remote", false, "Allow binding to non-localhost addresses")
	fs.BoolVar(&f.toStdout, "stdout", false, "Log to stdout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply overrides config values with flags if provided.
func (f *flags) apply(cfg *config.Config) {
	if f.host != "" {
		cfg.ServiceHost = f.host
	}
	if f.port != 0 {
		cfg.ServicePort = f.port
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.buildingsFile != "" {
		cfg.BuildingsFile = f.buildingsFile
	}
	if f.insecureAllowRemote {
		cfg.InsecureAllowRemote = true
	}
}

func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func main() {
	f, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg := config.Load(f.configFile)
	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var logF *os.File
	var output io.Writer = os.Stdout

	if !f.toStdout {
		lf, err := openLogFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v. Logging to stdout.\n", cfg.LogFile, err)
		} else {
			logF = lf
			output = lf
		}
	}

	// Configure slog level
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, defaulting to INFO\n", err)
	}
	slog.SetDefault(logger.New(output, level))

	store, err := buildings.LoadFile(cfg.BuildingsFile)
	if err != nil {
		slog.Error("Failed to load buildings", "error", err)
		os.Exit(1)
	}

	s, err := service.New(cfg.ServiceHost, cfg.ServicePort, store, service.Options{
		RasterURLPattern: cfg.RasterURLPattern,
		ChartCacheSize:   cfg.ChartCacheSize,
		ChartWidth:       float64(cfg.ChartWidth),
		ChartHeight:      float64(cfg.ChartHeight),
	})
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Service failed", "error", err)
			os.Exit(1)
		}
	}()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for sig := range sigChan {
		switch sig {
		case syscall.SIGHUP:
			if logF != nil {
				newF, err := openLogFile(cfg.LogFile)
				if err == nil {
					_ = logF.Close()
					logF = newF

					// Re-create slog handler with new file
					slog.SetDefault(logger.New(logF, level))

					slog.Info("Log file rotated")
				} else {
					slog.Error("Failed to rotate log", "error", err)
				}
			}
		case syscall.SIGINT, syscall.SIGTERM:
			slog.Info("Shutting down service...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Shutdown(ctx); err != nil {
				slog.Error("Shutdown error", "error", err)
			}
			return
		}
	}
}
