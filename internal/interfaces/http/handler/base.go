package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/logger"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/hyperflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

var (
	errMissingTenant = errors.New("tenant ID not found in context")
	errMissingUser   = errors.New("user ID not found in context")
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// getUserID extracts the caller's user ID from the JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	id := middleware.GetJWTUserID(c)
	if id == "" {
		return uuid.Nil, errMissingUser
	}
	return uuid.Parse(id)
}

// getTenantID extracts the caller's tenant ID from the JWT claims
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	id := middleware.GetJWTTenantID(c)
	if id == "" {
		return uuid.Nil, errMissingTenant
	}
	return uuid.Parse(id)
}

// caller returns the tenant and user of the request or writes a 401
func (h *BaseHandler) caller(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing tenant")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing user")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

// tenant returns the tenant of the request or writes a 401
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing tenant")
		return uuid.Nil, false
	}
	return tenantID, true
}

// uuidParam parses a path parameter or writes a 400
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// tenantAndID combines tenant and the :id path parameter
func (h *BaseHandler) tenantAndID(c *gin.Context) (tenantID, id uuid.UUID, ok bool) {
	if tenantID, ok = h.tenant(c); !ok {
		return uuid.Nil, uuid.Nil, false
	}
	if id, ok = h.uuidParam(c, "id"); !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}

// bindJSON binds the body, writing field details for validation failures
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters like bindJSON
func (h *BaseHandler) bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &verrs), errors.As(err, &typeErr) && typeErr.Field != "":
		middleware.HandleValidationError(c, err)
	case errors.As(err, &maxErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body too large")
	case errors.Is(err, io.EOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is required")
	default:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
	}
}

// listFilter converts paging query parameters into a normalized filter
func listFilter(req dto.ListRequest) shared.Filter {
	f := shared.DefaultFilter()
	if req.Page > 0 {
		f.Page = req.Page
	}
	if req.PageSize > 0 {
		f.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		f.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		f.OrderDir = req.OrderDir
	}
	f.Search = strings.TrimSpace(req.Search)
	return f.Normalize()
}

// parseDate parses an optional YYYY-MM-DD value as UTC midnight, the form DATE columns store
func parseDate(value, field string) (*time.Time, error) {
	return parseDateIn(value, field, time.UTC)
}

// parseDateIn parses an optional YYYY-MM-DD value as midnight in loc
func parseDateIn(value, field string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(shared.DateLayout, value, loc)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, field+" must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// dateRange resolves start_date/end_date/days with defaultDays ending today in loc
func (h *BaseHandler) dateRange(c *gin.Context, defaultDays int, loc *time.Location) (shared.DateRange, bool) {
	var q dto.DateRangeQuery
	if !h.bindQuery(c, &q) {
		return shared.DateRange{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	start, err := parseDateIn(q.StartDate, "start_date", loc)
	if err != nil {
		h.HandleError(c, err)
		return shared.DateRange{}, false
	}
	end, err := parseDateIn(q.EndDate, "end_date", loc)
	if err != nil {
		h.HandleError(c, err)
		return shared.DateRange{}, false
	}
	days := defaultDays
	if q.Days > 0 {
		days = q.Days
	}
	r, err := shared.ResolveDateRange(start, end, days, time.Now().In(loc))
	if err != nil {
		h.HandleError(c, err)
		return shared.DateRange{}, false
	}
	return r, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Paginated sends a page of items with its meta
func Paginated[T any](h *BaseHandler, c *gin.Context, page *shared.Paginated[T]) {
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps domain errors to their status; anything else is logged and
// reported as a 500 without details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, status := dto.DomainErrorStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, domainErr.Message, getRequestID(c)))
		return
	}

	logger.FromContext(c.Request.Context()).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	h.InternalError(c, "An unexpected error occurred")
}
