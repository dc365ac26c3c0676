package queue

import (
	"testing"

	"github.com/fintechful/agent-portal/internal/config"
)

func TestNewClientDisabledIsNoop(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("nil config should produce disabled client")
	}
	if err := client.EnqueueCommissionPaid(CommissionPaidPayload{CommissionID: 1, AgentID: "usr_a"}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected default addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected default concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[CriticalQueue] != 3 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("default queues should weight critical over default: %v", cfg.Queues)
	}
}

func TestBuildServerConfigOverrides(t *testing.T) {
	_, cfg := BuildServerConfig(&config.QueueConfig{
		Concurrency: 4,
		Queues:      map[string]int{DefaultQueue: 2},
	})
	if cfg.Concurrency != 4 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if len(cfg.Queues) != 1 || cfg.Queues[DefaultQueue] != 2 {
		t.Fatalf("configured queues should replace defaults: %v", cfg.Queues)
	}
}
