package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/connection"
	"github.com/shoplink/backend/internal/domain/shared"
	"github.com/shoplink/backend/internal/interfaces/http/dto"
)

// SellerIDHeader carries the authenticated seller's identifier. It is set by
// the edge gateway after session validation.
const SellerIDHeader = "X-Seller-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getSellerID extracts the seller ID from the request headers
func getSellerID(c *gin.Context) (uuid.UUID, error) {
	sellerIDStr := c.GetHeader(SellerIDHeader)
	if sellerIDStr == "" {
		return uuid.Nil, errors.New("seller ID not found in request")
	}
	return uuid.Parse(sellerIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
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
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
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
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeBadRequest, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// sentinelCodes maps lifecycle and catalog sentinel errors to API error codes
var sentinelCodes = []struct {
	err  error
	code string
}{
	{connection.ErrInvalidProviderKind, dto.ErrCodeValidation},
	{connection.ErrInvalidProviderCode, dto.ErrCodeValidation},
	{connection.ErrProviderKindMismatch, dto.ErrCodeValidation},
	{connection.ErrInvalidSellerID, dto.ErrCodeValidation},
	{connection.ErrMissingAccountID, dto.ErrCodeValidationRequired},
	{connection.ErrMissingAccessToken, dto.ErrCodeValidationRequired},
	{connection.ErrMissingStoreDomain, dto.ErrCodeValidationRequired},
	{connection.ErrProviderAuthFailed, dto.ErrCodeProviderAuth},
	{connection.ErrProviderUnreachable, dto.ErrCodeProviderUnreachable},
	{connection.ErrNotConnected, dto.ErrCodeNotConnected},
	{connection.ErrNotPendingActivation, dto.ErrCodeInvalidState},
	{connection.ErrSyncInProgress, dto.ErrCodeSyncInProgress},
	{connection.ErrSyncFatal, dto.ErrCodeSyncFailed},
	{connection.ErrProviderNotRegistered, dto.ErrCodeValidation},
	{catalog.ErrExternallyManaged, dto.ErrCodeExternallyManaged},
	{catalog.ErrItemInvalidName, dto.ErrCodeValidationRequired},
	{catalog.ErrItemNameTooLong, dto.ErrCodeValidation},
	{catalog.ErrItemNegativePrice, dto.ErrCodeValidation},
	{catalog.ErrItemNotExternal, dto.ErrCodeInvalidState},
}

// HandleError converts domain and lifecycle errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			c.JSON(dto.GetHTTPStatus(sc.code), dto.NewErrorResponseWithRequestID(sc.code, err.Error(), requestID))
			return
		}
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
