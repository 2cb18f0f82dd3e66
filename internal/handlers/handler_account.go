package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/SscSPs/atm_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests on the session's account.
type accountHandler struct {
	engine portssvc.AccountEngineSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(engine portssvc.AccountEngineSvcFacade) *accountHandler {
	return &accountHandler{engine: engine}
}

// registerAccountRoutes registers routes that operate on the authenticated account.
func registerAccountRoutes(rg *gin.RouterGroup, engine portssvc.AccountEngineSvcFacade) {
	h := newAccountHandler(engine)

	rg.GET("/account", h.getAccount)
	rg.GET("/balance", h.getBalance)
	rg.POST("/deposit", h.deposit)
	rg.POST("/withdraw", h.withdraw)
	rg.PUT("/pin", h.changePIN)
	rg.GET("/movements", h.listMovements)
}

// session rebuilds the engine session for the account named by the token.
// It writes the error response itself and reports false when the request must stop.
func (h *accountHandler) session(c *gin.Context, logger *slog.Logger) (*domain.Session, bool) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}
	sess, err := h.engine.Resume(c.Request.Context(), accountID)
	if err != nil {
		h.respondError(c, logger, err, "resume session")
		return nil, false
	}
	return sess, true
}

// respondError maps engine errors to HTTP statuses.
func (h *accountHandler) respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Insufficient funds", slog.String("action", action))
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Insufficient funds"})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		logger.Warn("Credentials rejected", slog.String("action", action))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid PIN"})
	case errors.Is(err, apperrors.ErrNoSession), errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("No session for request", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrPersistence):
		logger.Error("Operation could not be recorded", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Operation could not be recorded"})
	default:
		logger.Error("Unexpected error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// getAccount godoc
// @Summary Get the session's account
// @Description Returns the ID, display name and balance of the logged-in account
// @Tags account
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/account [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := h.session(c, logger)
	if !ok {
		return
	}

	acc, err := h.engine.CurrentAccount(c.Request.Context(), sess)
	if err != nil {
		h.respondError(c, logger, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// getBalance godoc
// @Summary Get the balance
// @Tags account
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sess, ok := h.session(c, logger)
	if !ok {
		return
	}

	balance, err := h.engine.Balance(c.Request.Context(), sess)
	if err != nil {
		h.respondError(c, logger, err, "get balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: sess.AccountID, Balance: balance})
}

// deposit godoc
// @Summary Deposit money
// @Description Adds a positive amount to the balance and records a deposit movement
// @Tags account
// @Accept json
// @Produce json
// @Param deposit body dto.AmountRequest true "Amount"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/deposit [post]
func (h *accountHandler) deposit(c *gin.Context) {
	h.applyAmount(c, "deposit", h.engine.Deposit)
}

// withdraw godoc
// @Summary Withdraw money
// @Description Removes a positive amount not above the balance and records a withdrawal movement
// @Tags account
// @Accept json
// @Produce json
// @Param withdrawal body dto.AmountRequest true "Amount"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient funds"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/withdraw [post]
func (h *accountHandler) withdraw(c *gin.Context) {
	h.applyAmount(c, "withdraw", h.engine.Withdraw)
}

func (h *accountHandler) applyAmount(c *gin.Context, action string, apply func(ctx context.Context, sess *domain.Session, amount decimal.Decimal) (*domain.Movement, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: amount must be a positive number within the supported precision"})
		return
	}
	amount, err := req.Decimal()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount"})
		return
	}

	sess, ok := h.session(c, logger)
	if !ok {
		return
	}

	movement, err := apply(c.Request.Context(), sess, amount)
	if err != nil {
		h.respondError(c, logger, err, action)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// changePIN godoc
// @Summary Change the PIN
// @Tags account
// @Accept json
// @Produce json
// @Param pin body dto.ChangePINRequest true "Current and new PIN"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pin [put]
func (h *accountHandler) changePIN(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangePIN", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: currentPin and newPin are required"})
		return
	}

	sess, ok := h.session(c, logger)
	if !ok {
		return
	}

	movement, err := h.engine.ChangePIN(c.Request.Context(), sess, req.CurrentPIN, req.NewPIN)
	if err != nil {
		h.respondError(c, logger, err, "change pin")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(movement))
}

// listMovements godoc
// @Summary List recent movements
// @Description Returns the most recent movements of the account, newest first
// @Tags account
// @Produce json
// @Param count query int false "Number of movements (default 5)"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/movements [get]
func (h *accountHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "count must be a non-negative integer"})
			return
		}
		count = n
	}

	sess, ok := h.session(c, logger)
	if !ok {
		return
	}

	movements, err := h.engine.History(c.Request.Context(), sess, count)
	if err != nil {
		h.respondError(c, logger, err, "list movements")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMovementsResponse(movements))
}
