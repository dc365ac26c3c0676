package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/provider"
	"github.com/fintechful/agent-portal/internal/repository"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStorefrontHandlerTest(t *testing.T) *Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:public_storefront_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	profileRepo := repository.NewProfileRepository(db)
	container := &provider.Container{
		StorefrontService: service.NewStorefrontService(profileRepo, &config.Config{}),
	}
	return New(container)
}

func TestGetStorefrontWithoutTenantReturnsLanding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := setupStorefrontHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/storefront", nil)

	h.GetStorefront(c)

	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			Landing bool   `json:"landing"`
			Name    string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status_code want 200 got %d", resp.StatusCode)
	}
	if !resp.Data.Landing {
		t.Fatalf("expected landing payload when no tenant label")
	}
	if resp.Data.Name == "" {
		t.Fatalf("landing payload should carry a platform name")
	}
}

func TestGetStorefrontUnknownTenantReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := setupStorefrontHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/storefront", nil)
	c.Set(shared.ContextKeySubdomain, "ghost")

	h.GetStorefront(c)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status_code want 404 got %d", resp.StatusCode)
	}
}
