package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for ledger entries and transfers.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	loc           *time.Location
	now           func() time.Time
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade, loc *time.Location) *transactionHandler {
	return &transactionHandler{ledgerService: ls, loc: loc, now: time.Now}
}

// registerTransactionRoutes registers routes related to transactions and transfers.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, loc *time.Location) {
	h := newTransactionHandler(ledgerService, loc)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
	}
	rg.POST("/transfers", h.createTransfer)
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records an income, expense or transfer and applies its effect to the account balances atomically
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or category not found"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	in, err := req.ToInput()
	if err != nil {
		respondError(c, err, "create transaction")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create transaction", slog.String("type", string(req.Type)), slog.String("account_id", req.AccountID))

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), ownerID, in)
	if err != nil {
		respondError(c, err, "create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists the caller's transactions with filters, sorting and pagination
// @Tags transactions
// @Produce  json
// @Param   type query string false "INCOME, EXPENSE or TRANSFER"
// @Param   accountId query string false "Account on either leg"
// @Param   categoryId query string false "Category"
// @Param   startDate query string false "YYYY-MM-DD or RFC3339"
// @Param   endDate query string false "YYYY-MM-DD or RFC3339"
// @Param   minAmount query string false "Minimum amount"
// @Param   maxAmount query string false "Maximum amount"
// @Param   search query string false "Case-insensitive match on description or notes"
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Param   sortBy query string false "date, amount or description" default(date)
// @Param   sortOrder query string false "asc or desc" default(desc)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	filter, err := params.ToFilter(h.loc)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), ownerID, filter)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(page))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Partially updates a transaction. The old effect is reverted and the new one applied in one unit of work
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	transactionID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", transactionID))
	logger.Info("Received request to update transaction")

	txn, err := h.ledgerService.UpdateTransaction(c.Request.Context(), ownerID, transactionID, req.ToPatch())
	if err != nil {
		respondError(c, err, "update transaction")
		return
	}
	logger.Info("Transaction updated successfully")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction and reverts its effect on every account it touched
// @Tags transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	transactionID := c.Param("id")
	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), ownerID, transactionID); err != nil {
		respondError(c, err, "delete transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction deleted successfully", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// createTransfer godoc
// @Summary Transfer between accounts
// @Description Moves money between two active accounts. Rejected when the source balance is insufficient
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or insufficient funds"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Failure 500 {object} map[string]string "Failed to transfer"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transactionHandler) createTransfer(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to transfer", slog.String("from_account_id", req.FromAccountID), slog.String("to_account_id", req.ToAccountID))

	txn, err := h.ledgerService.Transfer(c.Request.Context(), ownerID, req.ToInput(h.now()))
	if err != nil {
		respondError(c, err, "transfer")
		return
	}
	logger.Info("Transfer completed successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
