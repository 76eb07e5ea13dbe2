// Package main is the entry point for the DeFi arbitrage agent pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fd1az/defi-agents/business/arbitrage"
	arbitrageApp "github.com/fd1az/defi-agents/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/defi-agents/business/arbitrage/di"
	arbitrageInfra "github.com/fd1az/defi-agents/business/arbitrage/infra"
	"github.com/fd1az/defi-agents/business/execution"
	"github.com/fd1az/defi-agents/business/gateway"
	gatewayDI "github.com/fd1az/defi-agents/business/gateway/di"
	"github.com/fd1az/defi-agents/business/pricing"
	"github.com/fd1az/defi-agents/internal/apm"
	"github.com/fd1az/defi-agents/internal/config"
	"github.com/fd1az/defi-agents/internal/di"
	"github.com/fd1az/defi-agents/internal/health"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/metrics"
	"github.com/fd1az/defi-agents/internal/monolith"
	"github.com/fd1az/defi-agents/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run headless with logs (no TUI)")
	mockPrices := flag.Bool("mock", false, "Use the deterministic mock price source")
	autostart := flag.Bool("start", true, "Begin scanning immediately")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("defi-agents %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode, *mockPrices, *autostart); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode, mockPrices, autostart bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Scanner.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting DeFi arbitrage agents",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	modules := []monolith.Module{
		&pricing.Module{UseMockSource: mockPrices},
		&execution.Module{},
		&arbitrage.Module{},
		&gateway.Module{Version: version},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// The event sink fans controller events out to the WebSocket hub
	// and, in TUI mode, the dashboard.
	mono.Container().RegisterFactory("eventSink", func(sr di.ServiceRegistry) any {
		sinks := arbitrageApp.MultiSink{gatewayDI.GetHub(sr)}
		if tuiMode {
			sinks = append(sinks, ui.Sink{})
		} else {
			sinks = append(sinks, arbitrageInfra.NewLogSink(log))
		}
		return arbitrageApp.EventSink(sinks)
	})

	// Health server reports controller liveness alongside the gateway
	healthServer := health.NewServer(cfg.Server.HealthPort, version)
	healthServer.RegisterCheck("controller", func(checkCtx context.Context) (bool, string) {
		controller := arbitrageDI.GetController(mono.Services())
		if _, err := controller.GetStatus(checkCtx); err != nil {
			return false, err.Error()
		}
		return true, ""
	})
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Server.HealthPort)
	}
	defer healthServer.Stop(ctx)

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	controller := arbitrageDI.GetController(mono.Services())

	if autostart {
		if _, err := controller.Start(ctx); err != nil {
			return fmt.Errorf("failed to start controller: %w", err)
		}
	}

	if tuiMode {
		return runTUI(ctx, controller, autostart)
	}
	return runCLI(ctx, controller, log)
}

func runCLI(ctx context.Context, controller *arbitrageApp.Controller, log *logger.Logger) error {
	log.Info(ctx, "all modules started, pipeline ready")

	<-ctx.Done()

	log.Info(context.Background(), "shutting down")
	if _, err := controller.Stop(context.Background()); err != nil {
		log.Warn(context.Background(), "failed to stop controller", "error", err)
	}
	return nil
}

func runTUI(ctx context.Context, controller *arbitrageApp.Controller, running bool) error {
	ui.OnStart = func() {
		if started, err := controller.Start(context.Background()); err == nil && started {
			ui.Send(ui.RunningMsg{Running: true})
		}
	}
	ui.OnStop = func() {
		if stopped, err := controller.Stop(context.Background()); err == nil && stopped {
			ui.Send(ui.RunningMsg{Running: false})
		}
	}
	ui.OnApprove = func(id string) {
		if err := controller.Approve(context.Background(), id); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
		}
	}
	ui.OnReject = func(id string) {
		if err := controller.Reject(context.Background(), id); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
		}
	}

	// Quit the TUI when the process context is cancelled
	go func() {
		<-ctx.Done()
		if ui.Program != nil {
			ui.Program.Quit()
		}
	}()

	if err := ui.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
