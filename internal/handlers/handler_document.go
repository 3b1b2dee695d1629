package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// documentHandler serves the invoices and payments the posting engine wrote.
// It is registered twice, once per ledger side.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// registerDocumentRoutes registers document reads under a ledger-side prefix,
// e.g. /suppliers or /customers.
func registerDocumentRoutes(rg *gin.RouterGroup, prefix string, documentService portssvc.DocumentSvcFacade) {
	h := &documentHandler{documentService: documentService}

	side := rg.Group(prefix)
	{
		side.GET("/invoices/:id", h.getInvoice)
		side.GET("/payments/:id", h.getPayment)
	}
}

func (h *documentHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	invoice, items, err := h.documentService.GetInvoice(c.Request.Context(), ownerID, invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, items))
}

func (h *documentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	payment, err := h.documentService.GetPayment(c.Request.Context(), ownerID, paymentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
