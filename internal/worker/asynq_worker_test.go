package worker

import (
	"testing"

	"github.com/fintechful/agent-portal/internal/models"
)

func TestBuildCommissionPaidMessageNil(t *testing.T) {
	if got := buildCommissionPaidMessage(nil, nil); got != "" {
		t.Fatalf("expected empty message for nil inputs, got %q", got)
	}
}

func TestBuildCommissionPaidMessage(t *testing.T) {
	profile := &models.Profile{FullName: "Maria Lopez", Subdomain: "maria"}
	record := &models.Commission{Provider: "Acme Payments", AgentShareCents: 286000}

	got := buildCommissionPaidMessage(profile, record)
	want := "Maria Lopez：您来自 Acme Payments 的佣金 $2860.00 已结清"
	if got != want {
		t.Fatalf("unexpected message, want %q, got %q", want, got)
	}
}

func TestBuildCommissionPaidMessageFallsBackToSubdomain(t *testing.T) {
	profile := &models.Profile{FullName: "  ", Subdomain: "maria"}
	record := &models.Commission{Provider: "Acme Payments", AgentShareCents: 183}

	got := buildCommissionPaidMessage(profile, record)
	want := "maria：您来自 Acme Payments 的佣金 $1.83 已结清"
	if got != want {
		t.Fatalf("unexpected message, want %q, got %q", want, got)
	}
}
