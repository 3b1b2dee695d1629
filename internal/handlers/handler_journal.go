package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// journalHandler handles HTTP requests related to the journal ledger.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journal := rg.Group("/journal")
	{
		journal.POST("/entries", h.postEntry)
		journal.GET("/entries", h.listEntries)
		journal.GET("/entries/:id", h.getEntry)
		journal.DELETE("/entries/:id", h.deleteEntry)
		journal.POST("/transfers", h.postTransfer)
	}

	// One account's view of the journal lives under the accounts resource.
	rg.GET("/accounts/:id/ledger", h.accountLedger)
}

func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to post journal entry",
		slog.String("debit_account_id", req.DebitAccountID),
		slog.String("credit_account_id", req.CreditAccountID))

	entry, err := h.journalService.PostEntry(c.Request.Context(), ownerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted successfully",
		slog.String("entry_id", entry.EntryID), slog.String("journal_number", entry.JournalNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *journalHandler) postTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, userID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to post transfer",
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID))

	entry, err := h.journalService.Transfer(c.Request.Context(), ownerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post transfer")
		return
	}

	logger.Info("Transfer posted successfully",
		slog.String("entry_id", entry.EntryID), slog.String("journal_number", entry.JournalNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), ownerID, entryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.journalService.ListEntries(c.Request.Context(), ownerID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal entries")
		return
	}

	logger.Info("Journal entries listed successfully", slog.Int("count", len(entries)))
	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	})
}

func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to delete journal entry", slog.String("entry_id", entryID))

	if err := h.journalService.DeleteEntry(c.Request.Context(), ownerID, entryID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete journal entry")
		return
	}

	logger.Info("Journal entry deleted successfully", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

func (h *journalHandler) accountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	ownerID, _, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	lines, err := h.journalService.ListEntriesByAccount(c.Request.Context(), ownerID, accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account ledger")
		return
	}

	responses := make([]dto.LedgerLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = dto.ToLedgerLineResponse(&line)
	}
	c.JSON(http.StatusOK, gin.H{"accountID": accountID, "lines": responses})
}
