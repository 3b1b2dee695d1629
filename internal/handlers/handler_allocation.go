package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// allocationHandler handles HTTP requests for one allocation engine
// instance. It is registered twice, once per ledger side.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

// newAllocationHandler creates a new allocationHandler.
func newAllocationHandler(as portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{
		allocationService: as,
	}
}

// registerAllocationRoutes registers allocation routes under a ledger-side
// prefix, e.g. /suppliers or /customers.
func registerAllocationRoutes(rg *gin.RouterGroup, prefix string, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	side := rg.Group(prefix)
	{
		side.POST("/allocations", h.allocate)
		side.PUT("/allocations/:id", h.updateAllocation)
		side.DELETE("/allocations/:id", h.deleteAllocation)
		side.GET("/payments/:id/allocations", h.listByPayment)
		side.GET("/payments/:id/unallocated", h.unallocatedAmount)
		side.GET("/invoices/:id/allocations", h.listByInvoice)
		side.GET("/invoices/:id/outstanding", h.outstandingBalance)
	}
}

func (h *allocationHandler) allocate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Allocate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to allocate payment",
		slog.String("payment_id", req.PaymentID),
		slog.String("invoice_id", req.InvoiceID))

	allocation, err := h.allocationService.Allocate(c.Request.Context(), ownerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to allocate payment")
		return
	}

	logger.Info("Allocation created successfully",
		slog.String("allocation_id", allocation.AllocationID))
	c.JSON(http.StatusCreated, dto.ToAllocationResponse(allocation))
}

func (h *allocationHandler) updateAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	allocationID := c.Param("id")

	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to update allocation",
		slog.String("allocation_id", allocationID))

	allocation, err := h.allocationService.UpdateAllocation(c.Request.Context(), ownerID, allocationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update allocation")
		return
	}

	logger.Info("Allocation updated successfully",
		slog.String("allocation_id", allocation.AllocationID))
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

func (h *allocationHandler) deleteAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	allocationID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to delete allocation",
		slog.String("allocation_id", allocationID))

	if err := h.allocationService.DeleteAllocation(c.Request.Context(), ownerID, allocationID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete allocation")
		return
	}

	logger.Info("Allocation deleted successfully", slog.String("allocation_id", allocationID))
	c.Status(http.StatusNoContent)
}

func (h *allocationHandler) listByPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	allocations, err := h.allocationService.ListByPayment(c.Request.Context(), ownerID, paymentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list allocations")
		return
	}

	c.JSON(http.StatusOK, dto.ListAllocationsResponse{Allocations: dto.ToAllocationResponses(allocations)})
}

func (h *allocationHandler) listByInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	allocations, err := h.allocationService.ListByInvoice(c.Request.Context(), ownerID, invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list allocations")
		return
	}

	c.JSON(http.StatusOK, dto.ListAllocationsResponse{Allocations: dto.ToAllocationResponses(allocations)})
}

func (h *allocationHandler) unallocatedAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	amount, err := h.allocationService.UnallocatedAmount(c.Request.Context(), ownerID, paymentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute unallocated amount")
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentID": paymentID, "unallocated": amount})
}

func (h *allocationHandler) outstandingBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	balance, err := h.allocationService.OutstandingBalance(c.Request.Context(), ownerID, invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute outstanding balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoiceID": invoiceID, "outstanding": balance})
}
