// Package config loads and validates the daemon's environment variables
// into a single immutable Config, aggregating every validation failure
// instead of failing fast on the first one so an operator fixes their
// environment in one pass.
package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mancow2001/mt-gcp-router-management/internal/secret"
)

// Config is the fully validated, resolved configuration for one daemon
// process.
type Config struct {
	CheckInterval time.Duration

	MaxRetriesHealthCheck int
	MaxRetriesBGPCheck    int
	MaxRetriesBGPUpdate   int
	MaxRetriesCloudflare  int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration

	HealthCheckWindow    int
	HealthCheckThreshold int
	AsymmetricHysteresis bool

	State2VerificationThreshold int
	State3VerificationThreshold int
	State4VerificationThreshold int

	MinStateDwellTime        time.Duration
	DwellTimeExceptionStates []int

	RunPassive bool

	GCPAPITimeout           time.Duration
	GCPBackendHealthTimeout time.Duration
	GCPBGPOperationTimeout  time.Duration
	CloudflareAPITimeout    time.Duration
	CloudflareBulkTimeout   time.Duration

	LocalGCPRegion    string
	RemoteGCPRegion   string
	LocalBGPRouter    string
	RemoteBGPRouter   string
	LocalBGPRegion    string
	RemoteBGPRegion   string
	BGPPeerProject    string
	GCPProject        string
	PrimaryPrefix     string
	SecondaryPrefix   string
	DescriptionSubstr string

	CloudflarePrimaryPriority   int
	CloudflareSecondaryPriority int
	CloudflareAccountID         string
	CloudflareAPIToken          string

	DiagListenAddr string
	DiagAPIKey     string

	LogLevel        string
	MetricsExporter string
	ServiceName     string
}

// ValidationError aggregates every config problem found in one Load call.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %d problem(s): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

type loader struct {
	getenv    func(string) string
	resolver  *secret.Resolver
	problems  []string
}

func (l *loader) fail(format string, args ...any) {
	l.problems = append(l.problems, fmt.Sprintf(format, args...))
}

func (l *loader) str(key, def string) string {
	v := l.getenv(key)
	if v == "" {
		return def
	}
	return v
}

func (l *loader) required(key string) string {
	v := l.getenv(key)
	if v == "" {
		l.fail("%s is required", key)
	}
	return v
}

func (l *loader) intRange(key string, def, min, max int) int {
	v := l.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.fail("%s: %q is not an integer", key, v)
		return def
	}
	if n < min || n > max {
		l.fail("%s: %d out of range [%d, %d]", key, n, min, max)
		return def
	}
	return n
}

func (l *loader) floatSeconds(key string, def float64, min, max float64) time.Duration {
	v := l.getenv(key)
	if v == "" {
		return time.Duration(def * float64(time.Second))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.fail("%s: %q is not a number", key, v)
		return time.Duration(def * float64(time.Second))
	}
	if f < min || f > max {
		l.fail("%s: %v out of range [%v, %v]", key, f, min, max)
		return time.Duration(def * float64(time.Second))
	}
	return time.Duration(f * float64(time.Second))
}

func (l *loader) boolVal(key string, def bool) bool {
	v := l.getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fail("%s: %q is not a boolean", key, v)
		return def
	}
	return b
}

func (l *loader) intList(key, def string) []int {
	v := l.str(key, def)
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			l.fail("%s: %q is not a comma-separated integer list", key, v)
			return nil
		}
		out = append(out, n)
	}
	return out
}

// Load reads every recognized environment variable via getenv, resolving
// CLOUDFLARE_API_TOKEN through resolver if it carries a secretref: prefix.
// All validation problems are collected and returned together as a single
// *ValidationError; a non-nil Config is never returned alongside an error.
func Load(ctx context.Context, getenv func(string) string, resolver *secret.Resolver) (*Config, error) {
	l := &loader{getenv: getenv, resolver: resolver}

	cfg := &Config{
		CheckInterval: time.Duration(l.intRange("CHECK_INTERVAL_SECONDS", 60, 1, 3600)) * time.Second,

		MaxRetriesHealthCheck: l.intRange("MAX_RETRIES_HEALTH_CHECK", legacyRetries(l, 5), 0, 20),
		MaxRetriesBGPCheck:    l.intRange("MAX_RETRIES_BGP_CHECK", legacyRetries(l, 4), 0, 20),
		MaxRetriesBGPUpdate:   l.intRange("MAX_RETRIES_BGP_UPDATE", legacyRetries(l, 2), 0, 20),
		MaxRetriesCloudflare:  l.intRange("MAX_RETRIES_CLOUDFLARE", legacyRetries(l, 3), 0, 20),

		InitialBackoff: l.floatSeconds("INITIAL_BACKOFF_SECONDS", 1, 0.01, 60),
		MaxBackoff:     l.floatSeconds("MAX_BACKOFF_SECONDS", 60, 1, 3600),

		CircuitBreakerThreshold: l.intRange("CIRCUIT_BREAKER_THRESHOLD", 5, 1, 100),
		CircuitBreakerTimeout:   l.floatSeconds("CIRCUIT_BREAKER_TIMEOUT_SECONDS", 300, 1, 3600),

		HealthCheckWindow:    l.intRange("HEALTH_CHECK_WINDOW", 5, 3, 10),
		AsymmetricHysteresis: l.boolVal("ASYMMETRIC_HYSTERESIS", false),

		State2VerificationThreshold: l.intRange("STATE_2_VERIFICATION_THRESHOLD", 2, 1, 10),
		State3VerificationThreshold: l.intRange("STATE_3_VERIFICATION_THRESHOLD", 2, 1, 10),
		State4VerificationThreshold: l.intRange("STATE_4_VERIFICATION_THRESHOLD", 2, 1, 10),

		MinStateDwellTime:        l.floatSeconds("MIN_STATE_DWELL_TIME", 120, 30, 600),
		DwellTimeExceptionStates: l.intList("DWELL_TIME_EXCEPTION_STATES", "1,4"),

		RunPassive: l.boolVal("RUN_PASSIVE", false),

		GCPAPITimeout:           l.floatSeconds("GCP_API_TIMEOUT", 30, 5, 300),
		GCPBackendHealthTimeout: l.floatSeconds("GCP_BACKEND_HEALTH_TIMEOUT", 45, 5, 300),
		GCPBGPOperationTimeout:  l.floatSeconds("GCP_BGP_OPERATION_TIMEOUT", 60, 5, 300),
		CloudflareAPITimeout:    l.floatSeconds("CLOUDFLARE_API_TIMEOUT", 10, 5, 300),
		CloudflareBulkTimeout:   l.floatSeconds("CLOUDFLARE_BULK_TIMEOUT", 60, 5, 300),

		LocalGCPRegion:    l.required("LOCAL_GCP_REGION"),
		RemoteGCPRegion:   l.required("REMOTE_GCP_REGION"),
		LocalBGPRouter:    l.required("LOCAL_BGP_ROUTER"),
		RemoteBGPRouter:   l.required("REMOTE_BGP_ROUTER"),
		LocalBGPRegion:    l.required("LOCAL_BGP_REGION"),
		RemoteBGPRegion:   l.required("REMOTE_BGP_REGION"),
		BGPPeerProject:    l.required("BGP_PEER_PROJECT"),
		GCPProject:        l.required("GCP_PROJECT"),
		PrimaryPrefix:     l.required("PRIMARY_PREFIX"),
		SecondaryPrefix:   l.required("SECONDARY_PREFIX"),
		DescriptionSubstr: l.required("DESCRIPTION_SUBSTRING"),

		CloudflarePrimaryPriority:   l.intRange("CLOUDFLARE_PRIMARY_PRIORITY", 100, 0, 65535),
		CloudflareSecondaryPriority: l.intRange("CLOUDFLARE_SECONDARY_PRIORITY", 200, 0, 65535),
		CloudflareAccountID:         l.required("CLOUDFLARE_ACCOUNT_ID"),

		DiagListenAddr: l.str("DIAG_LISTEN_ADDR", ""),
		DiagAPIKey:     l.str("DIAG_API_KEY", ""),

		LogLevel:        l.str("LOG_LEVEL", "info"),
		MetricsExporter: l.str("METRICS_EXPORTER", "none"),
		ServiceName:     l.str("SERVICE_NAME", "routedaemon"),
	}

	threshold := l.intRange("HEALTH_CHECK_THRESHOLD", 3, 1, cfg.HealthCheckWindow)
	if threshold > cfg.HealthCheckWindow {
		l.fail("HEALTH_CHECK_THRESHOLD: %d exceeds HEALTH_CHECK_WINDOW %d", threshold, cfg.HealthCheckWindow)
	}
	cfg.HealthCheckThreshold = threshold

	rawToken := l.required("CLOUDFLARE_API_TOKEN")
	if rawToken != "" {
		resolved, err := resolver.Resolve(ctx, rawToken)
		if err != nil {
			l.fail("CLOUDFLARE_API_TOKEN: %v", err)
		} else {
			cfg.CloudflareAPIToken = resolved
		}
	}

	if len(l.problems) > 0 {
		return nil, &ValidationError{Problems: l.problems}
	}
	return cfg, nil
}

// legacyRetries resolves MAX_RETRIES as the fallback default for a
// per-category retry count when the category-specific variable is unset.
func legacyRetries(l *loader, fallbackDefault int) int {
	v := l.getenv("MAX_RETRIES")
	if v == "" {
		return fallbackDefault
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallbackDefault
	}
	return n
}
