package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(cs portssvc.ChartSvcFacade) *accountHandler {
	return &accountHandler{
		chartService: cs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newAccountHandler(chartService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create account",
		slog.Int("code", req.Code), slog.String("account_name", req.Name))

	account, err := h.chartService.CreateAccount(c.Request.Context(), ownerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	account, err := h.chartService.GetAccount(c.Request.Context(), ownerID, accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}

	responses := make([]dto.AccountWithBalanceResponse, len(accounts))
	for i, account := range accounts {
		balance, err := h.chartService.GetBalance(c.Request.Context(), ownerID, account.AccountID, nil)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to compute account balance")
			return
		}
		responses[i] = dto.AccountWithBalanceResponse{
			AccountResponse: dto.ToAccountResponse(&account),
			Balance:         balance,
		}
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(responses)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: responses})
}

func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	var asOf *time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
			return
		}
		asOf = &parsed
	}

	balance, err := h.chartService.GetBalance(c.Request.Context(), ownerID, accountID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute account balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accountID": accountID, "balance": balance})
}

func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to update account", slog.String("account_id", accountID))

	account, err := h.chartService.UpdateAccount(c.Request.Context(), ownerID, accountID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to delete account", slog.String("account_id", accountID))

	if err := h.chartService.DeleteAccount(c.Request.Context(), ownerID, accountID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
