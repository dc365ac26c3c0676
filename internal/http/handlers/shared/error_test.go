package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fintechful/agent-portal/internal/identity"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
)

func respondAndDecode(t *testing.T, err error) (int, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/admin/agents", nil)

	RespondServiceError(c, err)

	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode, resp.Msg
}

func TestRespondServiceErrorIdentityRejectionPassthrough(t *testing.T) {
	upstream := "That email address is taken. Please try another."
	err := fmt.Errorf("%w: %s", identity.ErrUserRejected, upstream)

	code, msg := respondAndDecode(t, err)
	if code != 400 {
		t.Fatalf("status_code want 400 got %d", code)
	}
	if !strings.Contains(msg, upstream) {
		t.Fatalf("expected upstream message passthrough, got %q", msg)
	}
}

func TestRespondServiceErrorIdentityRequestFailedPassthrough(t *testing.T) {
	err := fmt.Errorf("%w: dial tcp: connection refused", identity.ErrRequestFailed)

	code, msg := respondAndDecode(t, err)
	if code != 500 {
		t.Fatalf("status_code want 500 got %d", code)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Fatalf("expected request failure passthrough, got %q", msg)
	}
}

func TestRespondServiceErrorProvisionIncompleteCarriesIdentityID(t *testing.T) {
	err := fmt.Errorf("%w: identity user %s: %v", service.ErrProvisionIncomplete, "usr_abc123", errors.New("insert failed"))

	code, msg := respondAndDecode(t, err)
	if code != 500 {
		t.Fatalf("status_code want 500 got %d", code)
	}
	if !strings.Contains(msg, "usr_abc123") {
		t.Fatalf("expected created identity id in message, got %q", msg)
	}
}

func TestRespondServiceErrorUnknownMasked(t *testing.T) {
	code, msg := respondAndDecode(t, errors.New("driver: bad connection"))
	if code != 500 {
		t.Fatalf("status_code want 500 got %d", code)
	}
	if msg != "服务器内部错误" {
		t.Fatalf("unknown errors should be masked, got %q", msg)
	}
}
