package api

import (
	"errors"   // Sentinel error checks
	"net/http" // HTTP status codes
	"time"     // Lock date parsing

	"vaultbank/internal/money" // Amount validation errors
	"vaultbank/internal/vault" // Vault engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // Vault identifiers
	"github.com/shopspring/decimal" // Money values
)

// CreateVaultRequest carries the fields of a new savings vault
type CreateVaultRequest struct {
	Title         string   `json:"title" binding:"required"`       // Goal title
	Amount        float64  `json:"amount" binding:"required,gt=0"` // Savings target
	LockDate      string   `json:"lock_date" binding:"required"`   // YYYY-MM-DD
	FundingMethod string   `json:"funding_method"`                 // 'wallet' (default) or 'card'
	DeductionAmt  *float64 `json:"deduction_amt"`                  // Optional schedule amount
	DeductionFreq *string  `json:"deduction_freq"`                 // Optional: daily, weekly, monthly
}

// CreateVaultHandler creates a vault owned by the caller
func CreateVaultHandler(eng *vault.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		var req CreateVaultRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Title, amount and lock_date are required", "INVALID_INPUT")
			return
		}
		lockDate, err := time.Parse("2006-01-02", req.LockDate)
		if err != nil {
			fail(c, http.StatusBadRequest, "lock_date must be a YYYY-MM-DD date", "INVALID_INPUT")
			return
		}
		params := vault.CreateParams{
			Title:              req.Title,
			TargetAmount:       decimal.NewFromFloat(req.Amount),
			LockDate:           lockDate,
			FundingMethod:      req.FundingMethod,
			DeductionFrequency: req.DeductionFreq,
		}
		if req.DeductionAmt != nil {
			amt := decimal.NewFromFloat(*req.DeductionAmt)
			params.DeductionAmount = &amt
		}
		v, err := eng.Create(c.Request.Context(), userID, params)
		if err != nil {
			switch {
			case errors.Is(err, vault.ErrInvalidInput),
				errors.Is(err, vault.ErrInvalidSchedule),
				errors.Is(err, vault.ErrInvalidFrequency),
				errors.Is(err, money.ErrInvalidAmount):
				fail(c, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
			default:
				fail(c, http.StatusInternalServerError, "Could not create vault", "DB_ERROR")
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"vault": v})
	}
}

// DepositVaultHandler credits a vault the caller owns
func DepositVaultHandler(eng *vault.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		vaultID, err := uuid.Parse(c.Param("id")) // Path parameter must be a UUID
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid vault id", "INVALID_INPUT")
			return
		}
		var req AmountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Amount must be greater than 0", "VALIDATION_ERROR")
			return
		}
		newBalance, err := eng.Deposit(c.Request.Context(), vaultID, userID, decimal.NewFromFloat(req.Amount))
		if err != nil {
			switch {
			case errors.Is(err, money.ErrInvalidAmount):
				fail(c, http.StatusBadRequest, "Amount must be greater than 0", "VALIDATION_ERROR")
			case errors.Is(err, vault.ErrVaultNotFound):
				// Not found or not owned by the caller; same answer either way
				fail(c, http.StatusNotFound, "Vault not found", "VAULT_NOT_FOUND")
			default:
				fail(c, http.StatusInternalServerError, "Could not deposit to vault", "DB_ERROR")
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deposit successful", "newBalance": newBalance})
	}
}
