package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortlink/internal/domain"
	"shortlink/internal/service"
	"shortlink/pkg/logger"
)

// URLHandler handles HTTP requests for shortening and redirection
type URLHandler struct {
	service service.URLService
	logger  *logger.Logger
}

// NewURLHandler creates a new URL handler with dependencies
func NewURLHandler(service service.URLService, logger *logger.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		logger:  logger,
	}
}

// ShortenURL handles POST /api/v1/shorten
// Creates a new shortened URL, attributed to the caller when authenticated
func (h *URLHandler) ShortenURL(c *gin.Context) {
	var req domain.CreateURLRequest

	// Bind and validate request body
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Anonymous links are allowed; owner is set only when a token was sent
	var ownerID *uint
	if userID, ok := UserIDFromContext(c); ok {
		ownerID = &userID
	}

	response, err := h.service.ShortenURL(c.Request.Context(), &req, ownerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// RedirectURL handles GET /:shortCode
// Resolves the short code and redirects to the destination URL.
// The click is recorded in the background; the redirect never waits for it.
func (h *URLHandler) RedirectURL(c *gin.Context) {
	shortCode := c.Param("shortCode")

	reqCtx := domain.RequestContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}

	longURL, err := h.service.Resolve(c.Request.Context(), shortCode, reqCtx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// 302 so browsers keep coming back through the resolver and every visit
	// is counted
	c.Redirect(http.StatusFound, longURL)
}

// DeactivateURL handles DELETE /api/v1/urls/:shortCode (authenticated)
// Disables one of the caller's URLs; subsequent visits get the deactivated
// response instead of a redirect.
func (h *URLHandler) DeactivateURL(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	shortCode := c.Param("shortCode")

	if err := h.service.Deactivate(c.Request.Context(), shortCode, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "URL deactivated successfully",
		"short_code": shortCode,
	})
}

// handleError processes domain errors and returns appropriate HTTP responses.
// The three lifecycle failures are all 404-class, distinguished by message.
func (h *URLHandler) handleError(c *gin.Context, err error) {
	var appErr *domain.AppError

	switch {
	case errors.Is(err, domain.ErrURLNotFound):
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "not_found",
			Message: "Short URL not found",
			Code:    http.StatusNotFound,
		})

	case errors.Is(err, domain.ErrURLDeactivated):
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "url_deactivated",
			Message: "This URL has been deactivated by its owner",
			Code:    http.StatusNotFound,
		})

	case errors.Is(err, domain.ErrURLExpired):
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "url_expired",
			Message: "This URL has expired and is no longer available",
			Code:    http.StatusNotFound,
		})

	case errors.Is(err, domain.ErrShortCodeTaken):
		c.JSON(http.StatusConflict, domain.ErrorResponse{
			Error:   "short_code_taken",
			Message: "This short code is already in use",
			Code:    http.StatusConflict,
		})

	case errors.As(err, &appErr):
		// Log internal errors but don't expose details to users
		if appErr.Internal {
			h.logger.Error("Internal server error", "error", appErr.Err)
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "internal_error",
				Message: "An internal error occurred",
				Code:    appErr.StatusCode,
			})
		} else {
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "client_error",
				Message: appErr.Message,
				Code:    appErr.StatusCode,
			})
		}

	default:
		h.logger.Error("Unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
	}
}
