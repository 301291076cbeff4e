// Command routedaemon runs the cloud-failover control loop: it probes
// local/remote backend health and BGP session state, reduces them through a
// three-layer flap-protection pipeline, and actuates BGP advertisements and
// Cloudflare route priority to match the committed state.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cloudflare "github.com/cloudflare/cloudflare-go"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/mancow2001/mt-gcp-router-management/internal/authz"
	"github.com/mancow2001/mt-gcp-router-management/internal/cache"
	"github.com/mancow2001/mt-gcp-router-management/internal/config"
	"github.com/mancow2001/mt-gcp-router-management/internal/control"
	"github.com/mancow2001/mt-gcp-router-management/internal/dwell"
	"github.com/mancow2001/mt-gcp-router-management/internal/hysteresis"
	"github.com/mancow2001/mt-gcp-router-management/internal/monitor"
	"github.com/mancow2001/mt-gcp-router-management/internal/monitor/cfclient"
	"github.com/mancow2001/mt-gcp-router-management/internal/monitor/gcpclient"
	"github.com/mancow2001/mt-gcp-router-management/internal/observe"
	"github.com/mancow2001/mt-gcp-router-management/internal/observe/exporters"
	"github.com/mancow2001/mt-gcp-router-management/internal/resilience"
	"github.com/mancow2001/mt-gcp-router-management/internal/secret"
	"github.com/mancow2001/mt-gcp-router-management/internal/statecode"
	"github.com/mancow2001/mt-gcp-router-management/internal/verify"

	"go.opentelemetry.io/otel/sdk/metric"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := secret.NewResolver() // no provider registered: CLOUDFLARE_API_TOKEN is used as a literal unless secretref: is given
	cfg, err := config.Load(ctx, os.Getenv, resolver)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	logger := observe.NewLogger(cfg.LogLevel)
	metricsReader, err := exporters.NewMetricsReader(ctx, cfg.MetricsExporter)
	if err != nil {
		return fmt.Errorf("metrics exporter: %w", err)
	}
	meterProvider := metric.NewMeterProvider(metric.WithReader(metricsReader))
	defer meterProvider.Shutdown(ctx)

	metrics, err := observe.NewMetrics(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	emitter := observe.NewEmitter(logger, metrics)
	defer emitter.Close()

	computeSvc, err := compute.NewService(ctx, option.WithScopes(compute.ComputeScope))
	if err != nil {
		return fmt.Errorf("gcp compute client: %w", err)
	}
	gcp := gcpclient.New(computeSvc, cfg.GCPProject, cache.New())

	cfAPI, err := cloudflare.NewWithAPIToken(cfg.CloudflareAPIToken)
	if err != nil {
		return fmt.Errorf("cloudflare client: %w", err)
	}
	cf := cfclient.New(cfAPI, cfg.CloudflarePrimaryPriority, cfg.CloudflareSecondaryPriority)

	healthExecutor := resilience.NewExecutor(
		resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold: cfg.CircuitBreakerThreshold,
			Timeout:   cfg.CircuitBreakerTimeout,
			OnStateChange: func(from, to string) {
				logger.Warn(context.Background(), "circuit breaker state change", observe.Field{Key: "from", Value: from}, observe.Field{Key: "to", Value: to})
			},
		}),
		resilience.NewRetry(resilience.RetryConfig{MaxRetries: cfg.MaxRetriesHealthCheck, Initial: cfg.InitialBackoff, Max: cfg.MaxBackoff, Factor: 2, RetryIf: resilienceRetryable}),
		resilience.NewTimeout(cfg.GCPBackendHealthTimeout),
	)
	bgpCheckExecutor := resilience.NewExecutor(
		resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Threshold: cfg.CircuitBreakerThreshold, Timeout: cfg.CircuitBreakerTimeout}),
		resilience.NewRetry(resilience.RetryConfig{MaxRetries: cfg.MaxRetriesBGPCheck, Initial: cfg.InitialBackoff, Max: cfg.MaxBackoff, Factor: 2, RetryIf: resilienceRetryable}),
		resilience.NewTimeout(cfg.GCPBGPOperationTimeout),
	)
	bgpUpdateExecutor := resilience.NewExecutor(
		resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Threshold: cfg.CircuitBreakerThreshold, Timeout: cfg.CircuitBreakerTimeout}),
		resilience.NewRetry(resilience.RetryConfig{MaxRetries: cfg.MaxRetriesBGPUpdate, Initial: cfg.InitialBackoff, Max: cfg.MaxBackoff, Factor: 2, RetryIf: resilienceRetryable}),
		resilience.NewTimeout(cfg.GCPAPITimeout),
	)
	cloudflareExecutor := resilience.NewExecutor(
		resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Threshold: cfg.CircuitBreakerThreshold, Timeout: cfg.CircuitBreakerTimeout}),
		resilience.NewRetry(resilience.RetryConfig{MaxRetries: cfg.MaxRetriesCloudflare, Initial: cfg.InitialBackoff, Max: cfg.MaxBackoff, Factor: 2, RetryIf: resilienceRetryable}),
		resilience.NewTimeout(cfg.CloudflareBulkTimeout),
	)

	windowCfg := hysteresis.Config{Size: cfg.HealthCheckWindow, Threshold: cfg.HealthCheckThreshold, ModeKind: hysteresis.Symmetric}
	if cfg.AsymmetricHysteresis {
		windowCfg.ModeKind = hysteresis.Asymmetric
		windowCfg.Asymmetric = hysteresis.DefaultAsymmetricThresholds()
	}
	localWindow, err := hysteresis.New(windowCfg)
	if err != nil {
		return fmt.Errorf("local hysteresis window: %w", err)
	}
	remoteWindow, err := hysteresis.New(windowCfg)
	if err != nil {
		return fmt.Errorf("remote hysteresis window: %w", err)
	}
	bgpWindow, err := hysteresis.New(windowCfg)
	if err != nil {
		return fmt.Errorf("bgp hysteresis window: %w", err)
	}

	verifyGate, err := verify.New(verify.Thresholds{
		statecode.LocalDown:  cfg.State2VerificationThreshold,
		statecode.RemoteDown: cfg.State3VerificationThreshold,
		statecode.BothDown:   cfg.State4VerificationThreshold,
	})
	if err != nil {
		return fmt.Errorf("verification gate: %w", err)
	}

	dwellGate, err := dwell.New(dwell.Config{MinDwell: cfg.MinStateDwellTime, Exceptions: dwellExceptionSet(cfg.DwellTimeExceptionStates)})
	if err != nil {
		return fmt.Errorf("dwell gate: %w", err)
	}

	controller := control.New(localWindow, remoteWindow, bgpWindow, verifyGate, dwellGate, time.Now())

	actuator := control.NewActuator(gcp, cf, control.ActuatorTargets{
		LocalRegion:        cfg.LocalGCPRegion,
		LocalRouter:        cfg.LocalBGPRouter,
		RemoteRegion:       cfg.RemoteGCPRegion,
		RemoteRouter:       cfg.RemoteBGPRouter,
		PrimaryPrefix:      cfg.PrimaryPrefix,
		SecondaryPrefix:    cfg.SecondaryPrefix,
		CloudflareAccount:  cfg.CloudflareAccountID,
		CloudflareSelector: cfg.DescriptionSubstr,
	}, bgpUpdateExecutor, cloudflareExecutor, resilience.NewBulkhead(3), cfg.RunPassive)

	loop := control.NewLoop(control.Probes{
		Local:            gcp,
		Remote:           gcp,
		BGP:              gcp,
		LocalRegion:      cfg.LocalGCPRegion,
		RemoteRegion:     cfg.RemoteGCPRegion,
		BGPRegion:        cfg.LocalBGPRegion,
		BGPRouter:        cfg.LocalBGPRouter,
		HealthExecutor:   healthExecutor,
		BGPCheckExecutor: bgpCheckExecutor,
	}, controller, actuator, emitter, metrics, cfg.CheckInterval, cfg.RunPassive)

	if cfg.DiagListenAddr != "" {
		go serveDiagnostics(cfg, controller)
	}

	logger.Info(ctx, "routedaemon starting", observe.Field{Key: "check_interval_s", Value: cfg.CheckInterval.Seconds()}, observe.Field{Key: "passive_mode", Value: cfg.RunPassive})
	err = loop.Run(ctx)
	if err != nil && ctx.Err() != nil {
		// Clean cancellation: exit 0 per §6's process lifecycle contract.
		logger.Info(context.Background(), "routedaemon stopped", observe.Field{Key: "reason", Value: "signal"})
		return nil
	}
	return err
}

func serveDiagnostics(cfg *config.Config, controller *control.Controller) {
	mux := http.NewServeMux()
	control.NewDiagHandler(controller).Register(mux)

	var handler http.Handler = mux
	if cfg.DiagAPIKey != "" {
		handler = authz.NewGuard(cfg.DiagAPIKey).Wrap(mux)
	}

	server := &http.Server{Addr: cfg.DiagListenAddr, Handler: handler}
	log.Printf("diagnostic HTTP surface listening on %s", cfg.DiagListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("diagnostic HTTP server error: %v", err)
	}
}

func dwellExceptionSet(states []int) map[statecode.StateCode]bool {
	set := make(map[statecode.StateCode]bool, len(states))
	for _, s := range states {
		set[statecode.StateCode(s)] = true
	}
	return set
}

// resilienceRetryable retries errors the monitor clients classified as
// transient and per-call timeouts from the resilience timeout layer;
// permanent and unclassified errors end the retry loop at once.
func resilienceRetryable(err error) bool {
	return monitor.IsRetryable(err) || errors.Is(err, resilience.ErrTimeout)
}
