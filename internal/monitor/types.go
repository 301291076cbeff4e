// Package monitor defines the capability interfaces the control loop uses
// to read and mutate the two data planes (GCP compute/routing, and the
// transit provider), plus the concrete clients that implement them.
package monitor

import (
	"context"

	"github.com/mancow2001/mt-gcp-router-management/internal/health"
	"github.com/mancow2001/mt-gcp-router-management/internal/plan"
)

// Result is the outcome of one actuation write, per §4.10 and §6.
type Result string

const (
	ResultSuccess   Result = "SUCCESS"
	ResultNoChange  Result = "NO_CHANGE"
	ResultFailure   Result = "FAILURE"
	ResultSkipped   Result = "SKIPPED"
)

// BackendProber probes a region's backend-service health (§4.3).
type BackendProber interface {
	Probe(ctx context.Context, region string) (health.Health, error)
}

// BGPProber probes a BGP session's health on a router (§4.3).
type BGPProber interface {
	ProbeBGP(ctx context.Context, region, router string) (health.Health, error)
}

// Advertiser toggles a prefix's BGP advertisement on a router (§4.3).
// desired is nil for a no-op (state 0's null directive) and MUST NOT
// result in an API call; otherwise true/false mean advertise/withdraw.
type Advertiser interface {
	Advertise(ctx context.Context, region, router, prefix string, desired *bool) (Result, error)
}

// PriorityUpdater bulk-updates a transit provider's route priority for
// every route whose description contains selector (§4.3). priority nil
// means no-op.
type PriorityUpdater interface {
	SetPriority(ctx context.Context, account, selector string, priority *plan.Priority) (Result, error)
}
