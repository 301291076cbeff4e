package secret

import (
	"context"
	"testing"
)

type staticProvider struct {
	name  string
	value string
	err   error
}

func (p *staticProvider) Name() string { return p.name }
func (p *staticProvider) Resolve(ctx context.Context, ref string) (string, error) {
	return p.value, p.err
}

func TestParseSecretRef(t *testing.T) {
	provider, ref, ok := ParseSecretRef("secretref:vault:cf/token")
	if !ok || provider != "vault" || ref != "cf/token" {
		t.Fatalf("got (%q, %q, %v)", provider, ref, ok)
	}
	if _, _, ok := ParseSecretRef("plain-value"); ok {
		t.Error("plain value should not parse as a secretref")
	}
	if _, _, ok := ParseSecretRef("secretref:missingref"); ok {
		t.Error("malformed secretref should not parse")
	}
}

func TestResolver_Literal(t *testing.T) {
	r := NewResolver()
	got, err := r.Resolve(context.Background(), "abc123")
	if err != nil || got != "abc123" {
		t.Fatalf("got (%q, %v), want (abc123, nil)", got, err)
	}
}

func TestResolver_SecretRef(t *testing.T) {
	r := NewResolver(&staticProvider{name: "vault", value: "resolved-token"})
	got, err := r.Resolve(context.Background(), "secretref:vault:cf/token")
	if err != nil || got != "resolved-token" {
		t.Fatalf("got (%q, %v), want (resolved-token, nil)", got, err)
	}
}

func TestResolver_UnknownProvider(t *testing.T) {
	r := NewResolver()
	if _, err := r.Resolve(context.Background(), "secretref:vault:cf/token"); err == nil {
		t.Error("want error for unregistered provider")
	}
}
