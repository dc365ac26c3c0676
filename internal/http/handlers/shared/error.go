package shared

import (
	"errors"

	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/identity"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError 将服务层哨兵错误映射为统一响应码。
// 上游身份服务错误透传原文；未识别的错误按内部错误处理并记录日志。
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, identity.ErrUserRejected):
		response.BadRequest(c, err.Error())
	case errors.Is(err, identity.ErrRequestFailed),
		errors.Is(err, service.ErrProvisionIncomplete):
		RespondError(c, response.CodeInternal, err.Error(), err)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidPassword):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrSubdomainTaken),
		errors.Is(err, service.ErrSubdomainReserved),
		errors.Is(err, service.ErrReferrerNotFound),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, err.Error())
	default:
		RespondError(c, response.CodeInternal, "服务器内部错误", err)
	}
}
