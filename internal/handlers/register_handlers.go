package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.IdentityMiddleware())

	registerAccountRoutes(v1, services.Chart)
	registerJournalRoutes(v1, services.Journal)
	registerPostingRoutes(v1, services.Posting)
	registerAllocationRoutes(v1, "/suppliers", services.SupplierAllocations)
	registerAllocationRoutes(v1, "/customers", services.CustomerAllocations)
	registerDocumentRoutes(v1, "/suppliers", services.SupplierDocuments)
	registerDocumentRoutes(v1, "/customers", services.CustomerDocuments)
	registerReportingRoutes(v1, services.Reporting)
}

// respondServiceError translates service errors to HTTP responses. Validation
// maps to 400, missing records to 404, duplicates and conflicts to 409, and
// everything else to an opaque 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// identityFromContext pulls the owner and acting user set by the identity
// middleware, writing a 401 when either is missing.
func identityFromContext(c *gin.Context, logger *slog.Logger) (ownerID string, userID string, ok bool) {
	ownerID, ok = middleware.GetOwnerIDFromContext(c)
	if !ok {
		logger.Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return ownerID, userID, true
}
