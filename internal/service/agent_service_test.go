package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/identity"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAgentServiceTest(t *testing.T) (*AgentService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:agent_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Tenant.ReservedLabels = []string{"www", "app", "admin", "api"}
	// Clerk 未启用时客户端本地生成用户ID
	svc := NewAgentService(repository.NewProfileRepository(db), identity.NewClient(&cfg.Clerk), cfg)
	return svc, db
}

func TestCreateAgentGeneratesLocalIdentity(t *testing.T) {
	svc, _ := setupAgentServiceTest(t)

	profile, err := svc.CreateAgent(context.Background(), CreateAgentInput{
		FullName:  "Alice Smith",
		Email:     "alice@example.com",
		Subdomain: "Alice",
	})
	if err != nil {
		t.Fatalf("create agent failed: %v", err)
	}
	if !strings.HasPrefix(profile.ClerkUserID, "usr_local_") {
		t.Fatalf("expected local identity id, got %s", profile.ClerkUserID)
	}
	if profile.Subdomain != "alice" {
		t.Fatalf("expected lowercased subdomain, got %s", profile.Subdomain)
	}
	if profile.Role != constants.RoleAgent {
		t.Fatalf("expected default agent role, got %s", profile.Role)
	}
}

func TestCreateAgentSubdomainChecks(t *testing.T) {
	svc, _ := setupAgentServiceTest(t)

	base := CreateAgentInput{FullName: "Alice Smith", Email: "alice@example.com"}

	input := base
	input.Subdomain = "admin"
	if _, err := svc.CreateAgent(context.Background(), input); !errors.Is(err, ErrSubdomainReserved) {
		t.Fatalf("expected ErrSubdomainReserved, got: %v", err)
	}

	input = base
	input.Subdomain = "-bad-"
	if _, err := svc.CreateAgent(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed label, got: %v", err)
	}

	input = base
	input.Subdomain = "alice"
	if _, err := svc.CreateAgent(context.Background(), input); err != nil {
		t.Fatalf("create agent failed: %v", err)
	}
	input.Email = "second@example.com"
	if _, err := svc.CreateAgent(context.Background(), input); !errors.Is(err, ErrSubdomainTaken) {
		t.Fatalf("expected ErrSubdomainTaken, got: %v", err)
	}
}

func TestCreateAgentReferrerMustExist(t *testing.T) {
	svc, _ := setupAgentServiceTest(t)

	if _, err := svc.CreateAgent(context.Background(), CreateAgentInput{
		FullName:   "Bob Jones",
		Email:      "bob@example.com",
		Subdomain:  "bob",
		ReferredBy: "usr_ghost",
	}); !errors.Is(err, ErrReferrerNotFound) {
		t.Fatalf("expected ErrReferrerNotFound, got: %v", err)
	}
}

func TestUpdateAgentChangesReferrerAndSubdomain(t *testing.T) {
	svc, _ := setupAgentServiceTest(t)
	ctx := context.Background()

	upline, err := svc.CreateAgent(ctx, CreateAgentInput{FullName: "Upline", Email: "up@example.com", Subdomain: "upline"})
	if err != nil {
		t.Fatalf("create upline failed: %v", err)
	}
	agent, err := svc.CreateAgent(ctx, CreateAgentInput{FullName: "Bob", Email: "bob@example.com", Subdomain: "bob"})
	if err != nil {
		t.Fatalf("create agent failed: %v", err)
	}

	newSub := "bobby"
	updated, err := svc.UpdateAgent(ctx, agent.ID, AdminUpdateAgentInput{
		Subdomain:  &newSub,
		ReferredBy: &upline.ClerkUserID,
	})
	if err != nil {
		t.Fatalf("update agent failed: %v", err)
	}
	if updated.Subdomain != "bobby" {
		t.Fatalf("expected subdomain bobby, got %s", updated.Subdomain)
	}
	if updated.ReferredBy == nil || *updated.ReferredBy != upline.ClerkUserID {
		t.Fatalf("expected referrer %s, got %v", upline.ClerkUserID, updated.ReferredBy)
	}

	// 清除推荐关系
	empty := ""
	updated, err = svc.UpdateAgent(ctx, agent.ID, AdminUpdateAgentInput{ReferredBy: &empty})
	if err != nil {
		t.Fatalf("clear referrer failed: %v", err)
	}
	if updated.ReferredBy != nil {
		t.Fatalf("expected nil referrer, got %v", updated.ReferredBy)
	}

	// 不可把子域改成他人已占用
	taken := "upline"
	if _, err := svc.UpdateAgent(ctx, agent.ID, AdminUpdateAgentInput{Subdomain: &taken}); !errors.Is(err, ErrSubdomainTaken) {
		t.Fatalf("expected ErrSubdomainTaken, got: %v", err)
	}
}

func TestUpdateAgentRejectsSelfReferral(t *testing.T) {
	svc, _ := setupAgentServiceTest(t)
	ctx := context.Background()

	agent, err := svc.CreateAgent(ctx, CreateAgentInput{FullName: "Bob", Email: "bob@example.com", Subdomain: "bob"})
	if err != nil {
		t.Fatalf("create agent failed: %v", err)
	}
	if _, err := svc.UpdateAgent(ctx, agent.ID, AdminUpdateAgentInput{ReferredBy: &agent.ClerkUserID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self referral, got: %v", err)
	}
}

func TestUpdateOwnProfileLimitedFields(t *testing.T) {
	svc, _ := setupAgentServiceTest(t)
	ctx := context.Background()

	agent, err := svc.CreateAgent(ctx, CreateAgentInput{FullName: "Bob", Email: "bob@example.com", Subdomain: "bob"})
	if err != nil {
		t.Fatalf("create agent failed: %v", err)
	}

	tagline := "Payments done right"
	updated, err := svc.UpdateOwnProfile(ctx, agent.ClerkUserID, UpdateOwnProfileInput{Tagline: &tagline})
	if err != nil {
		t.Fatalf("update own profile failed: %v", err)
	}
	if updated.Tagline != tagline {
		t.Fatalf("expected tagline update, got %s", updated.Tagline)
	}
	if updated.Subdomain != "bob" {
		t.Fatalf("subdomain must be unchanged, got %s", updated.Subdomain)
	}

	if _, err := svc.UpdateOwnProfile(ctx, "usr_ghost", UpdateOwnProfileInput{Tagline: &tagline}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
