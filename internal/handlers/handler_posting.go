package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// postingHandler handles HTTP requests for business-event postings.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{
		postingService: ps,
	}
}

// registerPostingRoutes registers routes for the transaction logger.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	postings := rg.Group("/postings")
	{
		postings.POST("/supplier-invoices", h.postSupplierInvoice)
		postings.POST("/sales-invoices", h.postSalesInvoice)
		postings.POST("/supplier-payments", h.postSupplierPayment)
		postings.POST("/customer-receipts", h.postCustomerReceipt)
		postings.POST("/stock-adjustments", h.postStockAdjustment)
		postings.POST("/groups/:id/reverse", h.reverseGroup)
	}
}

// toPostingResponse shapes the written legs into the response envelope.
func toPostingResponse(entries []domain.JournalEntry) dto.PostingResponse {
	resp := dto.PostingResponse{Entries: dto.ToEntryResponses(entries)}
	if len(entries) > 0 {
		resp.TransactionGroupID = entries[0].TransactionGroupID
	}
	return resp
}

// invoicePosting factors the shared bind/post/respond flow of the two
// invoice endpoints.
func (h *postingHandler) invoicePosting(
	c *gin.Context,
	what string,
	post func(ctx *gin.Context, ownerID string, req dto.InvoicePostingRequest, userID string) ([]domain.JournalEntry, error),
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.InvoicePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for invoice posting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to post "+what,
		slog.String("invoice_id", req.InvoiceID),
		slog.String("invoice_number", req.InvoiceNumber))

	entries, err := post(c, ownerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post "+what)
		return
	}

	logger.Info("Posted "+what+" successfully", slog.Int("leg_count", len(entries)))
	c.JSON(http.StatusCreated, toPostingResponse(entries))
}

func (h *postingHandler) postSupplierInvoice(c *gin.Context) {
	h.invoicePosting(c, "supplier invoice", func(c *gin.Context, ownerID string, req dto.InvoicePostingRequest, userID string) ([]domain.JournalEntry, error) {
		return h.postingService.PostSupplierInvoice(c.Request.Context(), ownerID, req, userID)
	})
}

func (h *postingHandler) postSalesInvoice(c *gin.Context) {
	h.invoicePosting(c, "sales invoice", func(c *gin.Context, ownerID string, req dto.InvoicePostingRequest, userID string) ([]domain.JournalEntry, error) {
		return h.postingService.PostSalesInvoice(c.Request.Context(), ownerID, req, userID)
	})
}

// paymentPosting factors the shared flow of the two money-movement
// endpoints.
func (h *postingHandler) paymentPosting(
	c *gin.Context,
	what string,
	post func(ctx *gin.Context, ownerID string, req dto.PaymentPostingRequest, userID string) ([]domain.JournalEntry, error),
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PaymentPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for payment posting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to post "+what,
		slog.String("payment_id", req.PaymentID),
		slog.String("method", req.Method))

	entries, err := post(c, ownerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post "+what)
		return
	}

	logger.Info("Posted "+what+" successfully", slog.Int("leg_count", len(entries)))
	c.JSON(http.StatusCreated, toPostingResponse(entries))
}

func (h *postingHandler) postSupplierPayment(c *gin.Context) {
	h.paymentPosting(c, "supplier payment", func(c *gin.Context, ownerID string, req dto.PaymentPostingRequest, userID string) ([]domain.JournalEntry, error) {
		return h.postingService.PostSupplierPayment(c.Request.Context(), ownerID, req, userID)
	})
}

func (h *postingHandler) postCustomerReceipt(c *gin.Context) {
	h.paymentPosting(c, "customer receipt", func(c *gin.Context, ownerID string, req dto.PaymentPostingRequest, userID string) ([]domain.JournalEntry, error) {
		return h.postingService.PostCustomerReceipt(c.Request.Context(), ownerID, req, userID)
	})
}

func (h *postingHandler) postStockAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for stock adjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to post stock adjustment",
		slog.String("product_id", req.ProductID))

	entries, err := h.postingService.PostStockAdjustment(c.Request.Context(), ownerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post stock adjustment")
		return
	}

	logger.Info("Posted stock adjustment successfully", slog.Int("leg_count", len(entries)))
	c.JSON(http.StatusCreated, toPostingResponse(entries))
}

func (h *postingHandler) reverseGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("id")

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to reverse transaction group",
		slog.String("transaction_group_id", groupID))

	entries, err := h.postingService.ReverseGroup(c.Request.Context(), ownerID, groupID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse transaction group")
		return
	}

	logger.Info("Reversed transaction group successfully",
		slog.String("transaction_group_id", groupID), slog.Int("leg_count", len(entries)))
	c.JSON(http.StatusCreated, toPostingResponse(entries))
}
