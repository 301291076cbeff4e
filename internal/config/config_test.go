package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"LOCAL_GCP_REGION":      "us-central1",
		"REMOTE_GCP_REGION":     "us-east1",
		"LOCAL_BGP_ROUTER":      "router-local",
		"REMOTE_BGP_ROUTER":     "router-remote",
		"LOCAL_BGP_REGION":      "us-central1",
		"REMOTE_BGP_REGION":     "us-east1",
		"BGP_PEER_PROJECT":      "peer-project",
		"GCP_PROJECT":           "my-project",
		"PRIMARY_PREFIX":        "10.0.0.0/24",
		"SECONDARY_PREFIX":      "10.0.1.0/24",
		"DESCRIPTION_SUBSTRING": "mt-managed",
		"CLOUDFLARE_ACCOUNT_ID": "acct123",
		"CLOUDFLARE_API_TOKEN":  "tok123",
	}
}

func getenvFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(context.Background(), getenvFrom(baseEnv()), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CheckInterval != 60*time.Second {
		t.Errorf("CheckInterval = %v, want 60s", cfg.CheckInterval)
	}
	if cfg.HealthCheckWindow != 5 || cfg.HealthCheckThreshold != 3 {
		t.Errorf("window/threshold = %d/%d, want 5/3", cfg.HealthCheckWindow, cfg.HealthCheckThreshold)
	}
	if len(cfg.DwellTimeExceptionStates) != 2 {
		t.Errorf("DwellTimeExceptionStates = %v", cfg.DwellTimeExceptionStates)
	}
}

func TestLoad_MissingRequiredFieldsAggregate(t *testing.T) {
	_, err := Load(context.Background(), getenvFrom(map[string]string{}), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if len(verr.Problems) < 10 {
		t.Errorf("expected every missing required field to be reported, got %d problems: %v", len(verr.Problems), verr.Problems)
	}
}

func TestLoad_ThresholdExceedsWindow(t *testing.T) {
	env := baseEnv()
	env["HEALTH_CHECK_WINDOW"] = "3"
	env["HEALTH_CHECK_THRESHOLD"] = "5"
	_, err := Load(context.Background(), getenvFrom(env), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
}

func TestLoad_LegacyMaxRetriesFallback(t *testing.T) {
	env := baseEnv()
	env["MAX_RETRIES"] = "7"
	cfg, err := Load(context.Background(), getenvFrom(env), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxRetriesHealthCheck != 7 || cfg.MaxRetriesBGPCheck != 7 {
		t.Errorf("legacy fallback not applied: health=%d bgp=%d", cfg.MaxRetriesHealthCheck, cfg.MaxRetriesBGPCheck)
	}
}

func TestLoad_CategorySpecificOverridesLegacy(t *testing.T) {
	env := baseEnv()
	env["MAX_RETRIES"] = "7"
	env["MAX_RETRIES_HEALTH_CHECK"] = "1"
	cfg, err := Load(context.Background(), getenvFrom(env), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxRetriesHealthCheck != 1 {
		t.Errorf("MaxRetriesHealthCheck = %d, want 1", cfg.MaxRetriesHealthCheck)
	}
}

func TestLoad_OutOfRangeIsReported(t *testing.T) {
	env := baseEnv()
	env["MIN_STATE_DWELL_TIME"] = "10"
	_, err := Load(context.Background(), getenvFrom(env), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
}
