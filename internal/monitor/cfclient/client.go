// Package cfclient implements monitor.PriorityUpdater against
// github.com/cloudflare/cloudflare-go, bulk-updating Magic Transit route
// priority for every route tagged with a configured description substring.
package cfclient

import (
	"context"
	"errors"
	"strings"

	cloudflare "github.com/cloudflare/cloudflare-go"

	"github.com/mancow2001/mt-gcp-router-management/internal/monitor"
	"github.com/mancow2001/mt-gcp-router-management/internal/plan"
)

// Client wraps an authenticated *cloudflare.API scoped to one account.
type Client struct {
	api               *cloudflare.API
	primaryPriority   int
	secondaryPriority int
}

// New wraps an already-authenticated cloudflare.API. Token/credential
// construction (including secretref: resolution) is a config-time concern
// left to the caller. primaryPriority/secondaryPriority come from
// CLOUDFLARE_PRIMARY_PRIORITY/CLOUDFLARE_SECONDARY_PRIORITY so an operator's
// configured values govern route priority instead of fixed constants.
func New(api *cloudflare.API, primaryPriority, secondaryPriority int) *Client {
	return &Client{api: api, primaryPriority: primaryPriority, secondaryPriority: secondaryPriority}
}

// SetPriority updates the priority of every Magic Transit route in account
// whose Description contains selector. priority == nil is a no-op per the
// monitor.PriorityUpdater contract and must not reach the API.
func (c *Client) SetPriority(ctx context.Context, account, selector string, priority *plan.Priority) (monitor.Result, error) {
	if priority == nil {
		return monitor.ResultSkipped, nil
	}

	rc := cloudflare.AccountIdentifier(account)
	routes, err := c.api.ListMagicTransitRoutes(ctx, rc)
	if err != nil {
		return monitor.ResultFailure, monitor.ClassifyCloudflare(err, statusCodeOf(err))
	}

	target := c.priorityValue(*priority)
	changed := false
	for _, route := range routes {
		if !strings.Contains(route.Description, selector) {
			continue
		}
		if route.Priority == target {
			continue
		}
		changed = true
		update := route
		update.Priority = target
		if _, err := c.api.UpdateMagicTransitRoute(ctx, rc, route.ID, update); err != nil {
			return monitor.ResultFailure, monitor.ClassifyCloudflare(err, statusCodeOf(err))
		}
	}
	if !changed {
		return monitor.ResultNoChange, nil
	}
	return monitor.ResultSuccess, nil
}

// priorityValue maps a plan.Priority to the configured integer Cloudflare
// route priority: lower values are preferred, so the primary path normally
// gets the smaller number.
func (c *Client) priorityValue(p plan.Priority) int {
	switch p {
	case plan.PriorityPrimary:
		return c.primaryPriority
	case plan.PrioritySecondary:
		return c.secondaryPriority
	default:
		return c.secondaryPriority
	}
}

// statusCodeOf extracts the HTTP status from a cloudflare-go API error when
// present. cloudflare-go does not expose a single typed status across every
// request helper, so this best-effort extraction falls back to 0
// (ClassifyCloudflare's safe-transient default) when the error doesn't
// carry one.
func statusCodeOf(err error) int {
	var svcErr *cloudflare.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode
	}
	var authErr *cloudflare.AuthorizationError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	var rlErr *cloudflare.RatelimitError
	if errors.As(err, &rlErr) {
		return rlErr.StatusCode
	}
	return 0
}

var _ monitor.PriorityUpdater = (*Client)(nil)
