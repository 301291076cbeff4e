package exporters

import (
	"context"
	"errors"
	"testing"
)

func TestNewMetricsReader_None(t *testing.T) {
	r, err := NewMetricsReader(context.Background(), "none")
	if err != nil || r == nil {
		t.Fatalf("NewMetricsReader(none) = (%v, %v)", r, err)
	}
}

func TestNewMetricsReader_Stdout(t *testing.T) {
	r, err := NewMetricsReader(context.Background(), "stdout")
	if err != nil || r == nil {
		t.Fatalf("NewMetricsReader(stdout) = (%v, %v)", r, err)
	}
}

func TestNewMetricsReader_OTLPRequiresEndpoint(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "otlp")
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Fatalf("got %v, want ErrEndpointNotConfigured", err)
	}
}

func TestNewMetricsReader_Invalid(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "bogus")
	if !errors.Is(err, ErrInvalidExporter) {
		t.Fatalf("got %v, want ErrInvalidExporter", err)
	}
}
