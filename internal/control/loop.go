package control

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mancow2001/mt-gcp-router-management/internal/health"
	"github.com/mancow2001/mt-gcp-router-management/internal/monitor"
	"github.com/mancow2001/mt-gcp-router-management/internal/observe"
	"github.com/mancow2001/mt-gcp-router-management/internal/resilience"
	"github.com/mancow2001/mt-gcp-router-management/internal/statecode"
)

// Probes groups the three capability interfaces one tick fans out to.
// BGP is probed against the local router: it governs the primary
// advertisement path the Actuator's writes ultimately control.
type Probes struct {
	Local  monitor.BackendProber
	Remote monitor.BackendProber
	BGP    monitor.BGPProber

	LocalRegion  string
	RemoteRegion string
	BGPRegion    string
	BGPRouter    string

	// HealthExecutor wraps the two backend-health probes (tuned to
	// MAX_RETRIES_HEALTH_CHECK); BGPCheckExecutor wraps the BGP probe
	// (tuned to MAX_RETRIES_BGP_CHECK).
	HealthExecutor   *resilience.Executor
	BGPCheckExecutor *resilience.Executor
}

// Loop drives the periodic control-loop tick: probe, classify, gate,
// actuate, emit.
type Loop struct {
	probes     Probes
	controller *Controller
	actuator   *Actuator
	emitter    *observe.Emitter
	metrics    observe.Metrics
	interval   time.Duration
	passive    bool
}

// NewLoop builds a Loop.
func NewLoop(probes Probes, controller *Controller, actuator *Actuator, emitter *observe.Emitter, metrics observe.Metrics, interval time.Duration, passive bool) *Loop {
	return &Loop{
		probes:     probes,
		controller: controller,
		actuator:   actuator,
		emitter:    emitter,
		metrics:    metrics,
		interval:   interval,
		passive:    passive,
	}
}

// Run ticks every l.interval until ctx is cancelled. A tick already past
// probing and into actuation is allowed to finish: the actuation context is
// derived via context.WithoutCancel so a SIGTERM received mid-write does not
// abandon a partially-applied plan.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.tick(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	correlationID := newCorrelationID()
	tickCtx := context.WithValue(ctx, correlationIDKey{}, correlationID)
	start := time.Now()

	obs, probeErr := l.probeAll(tickCtx)
	previousState, _ := l.controller.CommittedState()
	now := time.Now()
	result := l.controller.Evaluate(now, obs)

	actuationCtx := context.WithoutCancel(tickCtx)
	actuation := l.actuator.Apply(actuationCtx, result.Plan)

	l.emitTick(tickCtx, correlationID, start, obs, probeErr, previousState, result, actuation)
}

// probeAll fans local health, remote health, and BGP health out via
// errgroup and joins before classification, per §5's structured-concurrency
// guidance. A probe error (already classified to a §7 category by the
// caller-provided executors) becomes health.Unknown for that channel rather
// than aborting the tick.
func (l *Loop) probeAll(ctx context.Context) (Observation, error) {
	var obs Observation
	var firstErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := probeWithExecutor(gctx, l.probes.HealthExecutor, func(ctx context.Context) (health.Health, error) {
			return l.probes.Local.Probe(ctx, l.probes.LocalRegion)
		})
		obs.Local = h
		return captureFirst(&firstErr, err)
	})
	g.Go(func() error {
		h, err := probeWithExecutor(gctx, l.probes.HealthExecutor, func(ctx context.Context) (health.Health, error) {
			return l.probes.Remote.Probe(ctx, l.probes.RemoteRegion)
		})
		obs.Remote = h
		return captureFirst(&firstErr, err)
	})
	g.Go(func() error {
		h, err := probeWithExecutor(gctx, l.probes.BGPCheckExecutor, func(ctx context.Context) (health.Health, error) {
			return l.probes.BGP.ProbeBGP(ctx, l.probes.BGPRegion, l.probes.BGPRouter)
		})
		obs.BGP = h
		return captureFirst(&firstErr, err)
	})
	// errgroup's own error is ignored: each goroutine already folds its
	// error into an Unknown health value rather than failing the group, so
	// every channel always reports something classifiable.
	_ = g.Wait()
	return obs, firstErr
}

// captureFirst records err into *first if it is the first non-nil error
// seen, and always returns nil so errgroup never cancels sibling probes
// over one channel's failure.
func captureFirst(first *error, err error) error {
	if err != nil && *first == nil {
		*first = err
	}
	return nil
}

func probeWithExecutor(ctx context.Context, executor *resilience.Executor, probe func(context.Context) (health.Health, error)) (health.Health, error) {
	var h health.Health
	var probeErr error
	err := executor.Execute(ctx, func(ctx context.Context) error {
		v, e := probe(ctx)
		h, probeErr = v, e
		return e
	})
	if err != nil {
		return health.Unknown, err
	}
	return h, probeErr
}

type correlationIDKey struct{}

// newCorrelationID builds "hc-<unix-seconds>-<8 hex chars>", where the hex
// chars are the first 8 characters of a new v4 UUID's string form.
func newCorrelationID() string {
	id := uuid.New().String()
	return fmt.Sprintf("hc-%d-%s", time.Now().Unix(), id[:8])
}

func (l *Loop) emitTick(ctx context.Context, correlationID string, start time.Time, obs Observation, probeErr error, previousState statecode.StateCode, result TickResult, actuation ActuationResults) {
	duration := time.Since(start)
	fields := map[string]any{
		"configuration.passive_mode": l.passive,
		"raw_state":                  int(result.RawState),
		"committed_state":            int(result.CommittedState),
		"local_health":               obs.Local.String(),
		"remote_health":              obs.Remote.String(),
		"bgp_health":                 obs.BGP.String(),
		"operation_results.bgp_updates_skipped":        actuation.Primary == monitor.ResultSkipped && actuation.Secondary == monitor.ResultSkipped,
		"operation_results.cloudflare_updates_skipped": actuation.Priority == monitor.ResultSkipped,
	}
	if probeErr != nil {
		fields["probe_error"] = probeErr.Error()
	}

	overallResult := "SUCCESS"
	if probeErr != nil || actuation.Primary == monitor.ResultFailure || actuation.Secondary == monitor.ResultFailure || actuation.Priority == monitor.ResultFailure {
		overallResult = "FAILURE"
	}

	l.emitter.Emit(ctx, observe.Event{
		Type:          observe.EventHealthCheckCycle,
		CorrelationID: correlationID,
		Timestamp:     start,
		DurationMS:    duration.Milliseconds(),
		Result:        overallResult,
		Fields:        fields,
	})

	if result.Committed {
		l.emitter.Emit(ctx, observe.Event{
			Type:          observe.EventStateTransition,
			CorrelationID: correlationID,
			Timestamp:     start,
			DurationMS:    duration.Milliseconds(),
			Result:        "SUCCESS",
			Fields: map[string]any{
				"from_state": int(previousState),
				"to_state":   int(result.CommittedState),
			},
		})
	}

	l.metrics.RecordTick(ctx, overallResult, duration.Milliseconds())
	l.metrics.RecordCommittedState(ctx, int(result.CommittedState))
}
