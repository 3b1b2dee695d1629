package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// reportingHandler handles HTTP requests for the financial statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes for the statement generator.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/profit-and-loss", h.profitAndLoss)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/vat-return", h.vatReturn)
	}
}

// asOfParams binds point-in-time report queries. A missing asOf means now.
type asOfParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// periodParams binds period report queries.
type periodParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	var params asOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf := time.Now()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), ownerID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report, asOf))
}

func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	var params periodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), ownerID, params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate profit and loss")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report, params.From, params.To))
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	var params asOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf := time.Now()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), ownerID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOf))
}

func (h *reportingHandler) vatReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	var params periodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.VatReturn(c.Request.Context(), ownerID, params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate VAT return")
		return
	}

	c.JSON(http.StatusOK, dto.ToVatReturnResponse(report, params.From, params.To))
}
