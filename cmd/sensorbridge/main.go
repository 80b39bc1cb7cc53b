package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/healthport/kiosk/internal/config"
	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/sensor"
)

// version is set at build time via -ldflags
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	addr := flag.String("addr", "", "Listen address (overrides BRIDGE_ADDR, default ':5000')")
	delay := flag.Duration("delay", -1, "Simulated device delay (overrides BRIDGE_FETCH_DELAY, default 5s)")
	logFile := flag.String("log-file", "", "Log file path (overrides LOG_FILE_PATH)")
	testing := flag.Bool("testing", false, "Answer polls with dummy values at once")
	envFile := flag.String("env", ".env", "Environment file to load")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("sensorbridge %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Bridge.Addr = *addr
	}
	if *delay >= 0 {
		cfg.Bridge.Delay = *delay
	}
	if *logFile != "" {
		cfg.App.LogFilePath = *logFile
	}
	if *testing {
		cfg.Bridge.Testing = true
	}

	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer log.Sync()

	bridge := sensor.NewBridge(sensor.DummyDevice{Delay: cfg.Bridge.Delay}, log, cfg.Bridge.Testing)
	server := &http.Server{
		Addr:              cfg.Bridge.Addr,
		Handler:           bridge.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	color.Cyan("HealthPort sensor bridge %s", version)
	color.Green("Listening on %s", cfg.Bridge.Addr)
	if cfg.Bridge.Testing {
		color.Yellow("Testing mode: polls answer with dummy values")
	} else {
		color.Yellow("Simulated device delay: %s", cfg.Bridge.Delay)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("main", "sensor bridge listening", map[string]interface{}{
			"addr":    cfg.Bridge.Addr,
			"delay":   cfg.Bridge.Delay.String(),
			"testing": cfg.Bridge.Testing,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("main", "sensor bridge failed", map[string]interface{}{"error": err.Error()})
			color.Red("Error: %v", err)
			bridge.Close()
			os.Exit(1)
		}
	case <-stop:
	}

	color.Yellow("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("main", "graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	bridge.Close()
	log.Info("main", "sensor bridge stopped", nil)
}

func printHelp() {
	fmt.Println("sensorbridge")
	fmt.Println("============")
	fmt.Println()
	fmt.Println("HTTP bridge between the kiosk and its measuring devices.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sensorbridge [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --addr <ADDR>       Listen address (default: ':5000')")
	fmt.Println("  --delay <DURATION>  Simulated device delay (default: 5s)")
	fmt.Println("  --log-file <PATH>   Log file (default: 'healthport.log')")
	fmt.Println("  --testing           Answer polls with dummy values at once")
	fmt.Println("  --env <FILE>        Environment file to load (default: '.env')")
	fmt.Println("  --version           Show version")
	fmt.Println("  --help              Show this help message")
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET /{sensor}       Start a reading (height, weight, temperature, pulse, bp)")
	fmt.Println("  GET /poll/{sensor}  Collect the reading once it is ready")
}
