package control

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mancow2001/mt-gcp-router-management/internal/monitor"
	"github.com/mancow2001/mt-gcp-router-management/internal/plan"
	"github.com/mancow2001/mt-gcp-router-management/internal/resilience"
)

// ActuatorTargets names the concrete prefixes/routers/accounts an
// Actuator's three writes apply to.
type ActuatorTargets struct {
	LocalRegion, LocalRouter   string
	RemoteRegion, RemoteRouter string
	PrimaryPrefix              string
	SecondaryPrefix            string
	CloudflareAccount          string
	CloudflareSelector         string
}

// ActuationResults is the outcome of applying one Plan's three independent
// writes, for event emission.
type ActuationResults struct {
	Primary   monitor.Result
	Secondary monitor.Result
	Priority  monitor.Result
}

// Actuator applies a plan.Plan against the monitor client capability
// interfaces. Passive mode is enforced here, not upstream, so P5 holds
// regardless of what the caller does with the returned plan.
type Actuator struct {
	advertiser monitor.Advertiser
	priority   monitor.PriorityUpdater
	targets    ActuatorTargets

	bgpExecutor        *resilience.Executor
	cloudflareExecutor *resilience.Executor
	bulkhead           *resilience.Bulkhead

	passive bool
}

// NewActuator builds an Actuator. bgpExecutor wraps the two BGP-advertise
// writes (circuit breaker/retry/timeout tuned to MAX_RETRIES_BGP_UPDATE);
// cloudflareExecutor wraps the priority write (tuned to
// MAX_RETRIES_CLOUDFLARE). bulkhead bounds how many of the three writes run
// concurrently against upstream rate limits.
func NewActuator(advertiser monitor.Advertiser, priority monitor.PriorityUpdater, targets ActuatorTargets, bgpExecutor, cloudflareExecutor *resilience.Executor, bulkhead *resilience.Bulkhead, passive bool) *Actuator {
	return &Actuator{
		advertiser:         advertiser,
		priority:           priority,
		targets:            targets,
		bgpExecutor:        bgpExecutor,
		cloudflareExecutor: cloudflareExecutor,
		bulkhead:           bulkhead,
		passive:            passive,
	}
}

// Apply applies p's three independent writes concurrently, each admitted
// through the shared bulkhead, so a slow GCP call never delays the
// independent Cloudflare call (or vice versa). In passive mode, every write
// is SKIPPED and the advertiser/priority interfaces are never called,
// satisfying P5 exactly.
func (a *Actuator) Apply(ctx context.Context, p plan.Plan) ActuationResults {
	if a.passive {
		return ActuationResults{Primary: monitor.ResultSkipped, Secondary: monitor.ResultSkipped, Priority: monitor.ResultSkipped}
	}

	var results ActuationResults
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.bulkhead.Execute(gctx, func(ctx context.Context) error {
			results.Primary = a.advertisePrefix(ctx, a.targets.LocalRegion, a.targets.LocalRouter, a.targets.PrimaryPrefix, p.Primary)
			return nil
		})
	})
	g.Go(func() error {
		return a.bulkhead.Execute(gctx, func(ctx context.Context) error {
			results.Secondary = a.advertisePrefix(ctx, a.targets.RemoteRegion, a.targets.RemoteRouter, a.targets.SecondaryPrefix, p.Secondary)
			return nil
		})
	})
	g.Go(func() error {
		return a.bulkhead.Execute(gctx, func(ctx context.Context) error {
			results.Priority = a.setPriority(ctx, p.Priority)
			return nil
		})
	})
	// Each goroutine writes a distinct ActuationResults field, so there is
	// no data race between them. advertisePrefix/setPriority already fold
	// every executor error into monitor.Result, so g.Wait's error is only
	// possible from ErrBulkheadFull (ctx cancelled before a slot freed); in
	// that case the field the failing write owns is left at its zero value
	// rather than a named Result, which the event emitter treats the same
	// as any other unrecognized result when deciding overall tick success.
	_ = g.Wait()
	return results
}

func (a *Actuator) advertisePrefix(ctx context.Context, region, router, prefix string, directive plan.Advertise) monitor.Result {
	desired := advertiseToDesired(directive)
	var result monitor.Result
	err := a.bgpExecutor.Execute(ctx, func(ctx context.Context) error {
		r, err := a.advertiser.Advertise(ctx, region, router, prefix, desired)
		result = r
		return err
	})
	if err != nil {
		return monitor.ResultFailure
	}
	return result
}

func (a *Actuator) setPriority(ctx context.Context, p plan.Priority) monitor.Result {
	desired := priorityToDesired(p)
	var result monitor.Result
	err := a.cloudflareExecutor.Execute(ctx, func(ctx context.Context) error {
		r, err := a.priority.SetPriority(ctx, a.targets.CloudflareAccount, a.targets.CloudflareSelector, desired)
		result = r
		return err
	})
	if err != nil {
		return monitor.ResultFailure
	}
	return result
}

// advertiseToDesired maps plan.Advertise's tri-state directive to the
// monitor.Advertiser contract's *bool (nil means "do not call").
func advertiseToDesired(directive plan.Advertise) *bool {
	switch directive {
	case plan.DoAdvertise:
		v := true
		return &v
	case plan.DoWithdraw:
		v := false
		return &v
	default:
		return nil
	}
}

// priorityToDesired maps plan.Priority to the monitor.PriorityUpdater
// contract's *plan.Priority (nil means "do not call").
func priorityToDesired(p plan.Priority) *plan.Priority {
	if p == plan.PriorityNone {
		return nil
	}
	v := p
	return &v
}
