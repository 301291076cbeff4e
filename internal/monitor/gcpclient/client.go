// Package gcpclient implements the monitor.BackendProber, monitor.BGPProber,
// and monitor.Advertiser capability interfaces against
// google.golang.org/api/compute/v1.
package gcpclient

import (
	"context"
	"fmt"
	"time"

	compute "google.golang.org/api/compute/v1"

	"github.com/mancow2001/mt-gcp-router-management/internal/cache"
	"github.com/mancow2001/mt-gcp-router-management/internal/health"
	"github.com/mancow2001/mt-gcp-router-management/internal/monitor"
)

// describeTTL bounds how long a backend-service describe response is reused
// across retries within the same tick (router status is not cached). It is kept
// well under any plausible CHECK_INTERVAL_SECONDS so a cache hit never
// masks a real state change on the next tick.
const describeTTL = 5 * time.Second

// Client wraps a *compute.Service scoped to a single GCP project.
type Client struct {
	svc     *compute.Service
	project string
	cache   *cache.Cache
}

// New wraps an already-authenticated compute.Service. Credential wiring
// (ADC, workload identity, or a service account key) is a deployment
// concern left to the caller that constructs svc. describeCache may be nil,
// in which case every probe hits the API directly.
func New(svc *compute.Service, project string, describeCache *cache.Cache) *Client {
	return &Client{svc: svc, project: project, cache: describeCache}
}

// Probe reports the aggregate health of a regional backend service named
// region, per §4.3: healthy only if every backend instance in the group
// reports HEALTHY, unhealthy if any instance reports another state
// (including the case of zero healthy instances), unknown on any API error (surfaced to the caller for
// classification, never silently swallowed).
func (c *Client) Probe(ctx context.Context, region string) (health.Health, error) {
	bs, err := c.getBackendService(ctx, region)
	if err != nil {
		return health.Unknown, monitor.ClassifyGCP(err)
	}

	allHealthy := true
	anyUnhealthy := false
	for _, group := range bs.Backends {
		resp, err := c.svc.RegionBackendServices.GetHealth(c.project, region, region,
			&compute.ResourceGroupReference{Group: group.Group}).Context(ctx).Do()
		if err != nil {
			return health.Unknown, monitor.ClassifyGCP(err)
		}
		for _, hs := range resp.HealthStatus {
			if hs.HealthState != "HEALTHY" {
				allHealthy = false
				anyUnhealthy = true
			}
		}
	}
	return health.Classify(nil, allHealthy, anyUnhealthy), nil
}

// getBackendService fetches the region's backend service description,
// reusing a cached response from within describeTTL when a cache is
// configured: a retry storm against a flapping backend should not multiply
// describe calls beyond what one tick needs.
func (c *Client) getBackendService(ctx context.Context, region string) (*compute.BackendService, error) {
	key := "backendservice:" + region
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.(*compute.BackendService), nil
		}
	}
	bs, err := c.svc.RegionBackendServices.Get(c.project, region, region).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(key, bs, describeTTL)
	}
	return bs, nil
}

// ProbeBGP reports whether every BGP peer on router is in the ESTABLISHED
// state.
func (c *Client) ProbeBGP(ctx context.Context, region, router string) (health.Health, error) {
	status, err := c.svc.Routers.GetRouterStatus(c.project, region, router).Context(ctx).Do()
	if err != nil {
		return health.Unknown, monitor.ClassifyGCP(err)
	}
	if status.Result == nil || len(status.Result.BgpPeerStatus) == 0 {
		return health.Unknown, nil
	}
	allUp := true
	anyDown := false
	for _, peer := range status.Result.BgpPeerStatus {
		if peer.State != "Established" {
			allUp = false
			anyDown = true
		}
	}
	return health.Classify(nil, allUp, anyDown), nil
}

// Advertise adds or removes prefix from router's custom advertised IP
// ranges. desired == nil is a no-op per the monitor.Advertiser contract and
// must not reach the API.
func (c *Client) Advertise(ctx context.Context, region, router, prefix string, desired *bool) (monitor.Result, error) {
	if desired == nil {
		return monitor.ResultSkipped, nil
	}

	r, err := c.svc.Routers.Get(c.project, region, router).Context(ctx).Do()
	if err != nil {
		return monitor.ResultFailure, monitor.ClassifyGCP(err)
	}
	if r.Bgp == nil {
		r.Bgp = &compute.RouterBgp{}
	}

	ranges, changed := applyPrefix(r.Bgp.AdvertisedIpRanges, prefix, *desired)
	if !changed {
		return monitor.ResultNoChange, nil
	}
	r.Bgp.AdvertisedIpRanges = ranges
	r.Bgp.AdvertiseMode = "CUSTOM"

	if _, err := c.svc.Routers.Patch(c.project, region, router, r).Context(ctx).Do(); err != nil {
		return monitor.ResultFailure, monitor.ClassifyGCP(err)
	}
	return monitor.ResultSuccess, nil
}

// applyPrefix adds prefix to ranges when desired is true and it is absent,
// or removes it when desired is false and present. changed reports whether
// the call would actually mutate state, so the caller can report NO_CHANGE
// instead of issuing a Patch that does nothing.
func applyPrefix(ranges []*compute.RouterAdvertisedIpRange, prefix string, desired bool) ([]*compute.RouterAdvertisedIpRange, bool) {
	idx := -1
	for i, r := range ranges {
		if r.Range == prefix {
			idx = i
			break
		}
	}
	switch {
	case desired && idx >= 0:
		return ranges, false
	case desired && idx < 0:
		out := make([]*compute.RouterAdvertisedIpRange, len(ranges), len(ranges)+1)
		copy(out, ranges)
		out = append(out, &compute.RouterAdvertisedIpRange{
			Range:       prefix,
			Description: fmt.Sprintf("routedaemon-managed: %s", prefix),
		})
		return out, true
	case !desired && idx < 0:
		return ranges, false
	default: // !desired && idx >= 0
		out := make([]*compute.RouterAdvertisedIpRange, 0, len(ranges)-1)
		out = append(out, ranges[:idx]...)
		out = append(out, ranges[idx+1:]...)
		return out, true
	}
}

var _ monitor.BackendProber = (*Client)(nil)
var _ monitor.BGPProber = (*Client)(nil)
var _ monitor.Advertiser = (*Client)(nil)
