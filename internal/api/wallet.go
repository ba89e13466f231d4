package api

import (
	"errors"   // Sentinel error checks
	"net/http" // HTTP status codes
	"strconv"  // Query parameter parsing
	"time"     // Cache TTL and timestamps

	"vaultbank/internal/domain" // Record models
	"vaultbank/internal/money"  // Amount validation errors and formatting
	"vaultbank/internal/utils"  // Redis cache helpers
	"vaultbank/internal/wallet" // Wallet balance engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Money values
	"github.com/sirupsen/logrus"    // Logging library
)

// cacheTTL is how long the balance and history views stay cached
const cacheTTL = 60 * time.Second

// AmountRequest carries a single money amount
type AmountRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // Amount, 2 decimals of precision
}

// WithdrawRequest carries a withdrawal order
type WithdrawRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`    // Withdrawal amount
	AccountNumber string  `json:"account_number" binding:"required"` // Destination account, digits only
	BankName      string  `json:"bank_name" binding:"required"`      // Destination bank, from the supported set
}

// balanceView is the cached shape of GET /wallets/balance
type balanceView struct {
	Balance   string    `json:"balance"`    // Formatted with 2 decimals
	CreatedAt time.Time `json:"created_at"` // Wallet creation time
}

// GetBalanceHandler returns the caller's wallet balance, read-through cached
func GetBalanceHandler(eng *wallet.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.BalanceCacheKey(userID)
		// Try the cache first
		if rdb != nil {
			var view balanceView
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &view); err == nil && found {
				c.JSON(http.StatusOK, view)
				return
			}
		}
		w, err := eng.Balance(ctx, userID)
		if err != nil {
			if errors.Is(err, wallet.ErrWalletNotFound) {
				fail(c, http.StatusNotFound, "Wallet not found", "WALLET_NOT_FOUND")
				return
			}
			fail(c, http.StatusInternalServerError, "Could not fetch wallet balance", "DB_ERROR")
			return
		}
		view := balanceView{Balance: money.Format(w.Balance), CreatedAt: w.CreatedAt}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, view, cacheTTL) // Cache the view
		}
		c.JSON(http.StatusOK, view)
	}
}

// GetBanksHandler lists the banks accepted for withdrawal
func GetBanksHandler(eng *wallet.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerID(c); !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		c.JSON(http.StatusOK, gin.H{"banks": eng.Banks()})
	}
}

// FundHandler credits the caller's wallet from the simulated external source
func FundHandler(eng *wallet.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		var req AmountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Amount must be a valid number greater than 0", "VALIDATION_ERROR")
			return
		}
		res, err := eng.Fund(c.Request.Context(), userID, decimal.NewFromFloat(req.Amount))
		if err != nil {
			switch {
			case errors.Is(err, money.ErrInvalidAmount):
				fail(c, http.StatusBadRequest, "Amount must be between 0.01 and 1000000", "VALIDATION_ERROR")
			case errors.Is(err, wallet.ErrWalletNotFound):
				fail(c, http.StatusNotFound, "Wallet not found", "WALLET_NOT_FOUND")
			default:
				logrus.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err.Error(),
				}).Error("Funding failed")
				fail(c, http.StatusInternalServerError, "Could not fund wallet", "FUNDING_ERROR")
			}
			return
		}
		// Drop stale cached views after the mutation
		utils.InvalidateWalletCaches(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusOK, gin.H{
			"message":          "Wallet funded successfully",
			"previous_balance": res.PreviousBalance,
			"amount_funded":    res.AmountFunded,
			"new_balance":      res.NewBalance,
		})
	}
}

// WithdrawHandler debits the caller's wallet toward a simulated bank account
func WithdrawHandler(eng *wallet.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		var req WithdrawRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Amount, account_number and bank_name are required", "VALIDATION_ERROR")
			return
		}
		res, err := eng.Withdraw(c.Request.Context(), userID, decimal.NewFromFloat(req.Amount), req.AccountNumber, req.BankName)
		if err != nil {
			switch {
			case errors.Is(err, wallet.ErrInvalidAccountNumber),
				errors.Is(err, wallet.ErrUnknownBank),
				errors.Is(err, money.ErrInvalidAmount):
				fail(c, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
			case errors.Is(err, wallet.ErrInsufficientBalance):
				fail(c, http.StatusBadRequest, "Insufficient balance", "INSUFFICIENT_BALANCE")
			case errors.Is(err, wallet.ErrWalletNotFound):
				fail(c, http.StatusNotFound, "Wallet not found", "WALLET_NOT_FOUND")
			default:
				logrus.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err.Error(),
				}).Error("Withdrawal failed")
				fail(c, http.StatusInternalServerError, "Could not process withdrawal", "WITHDRAWAL_ERROR")
			}
			return
		}
		utils.InvalidateWalletCaches(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusOK, gin.H{
			"message":             "Withdrawal successful",
			"previous_balance":    res.PreviousBalance,
			"amount_withdrawn":    res.AmountWithdrawn,
			"new_balance":         res.NewBalance,
			"account_number":      res.AccountNumber,
			"bank_name":           res.BankName,
			"account_holder_name": res.AccountHolderName,
			"transaction_type":    domain.TxWithdrawal,
		})
	}
}

// txPage is the cached shape of GET /wallets/transactions
type txPage struct {
	Transactions []domain.Transaction `json:"transactions"` // Newest first
	Total        int                  `json:"total_transactions"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
	HasMore      bool                 `json:"has_more"` // True when the page came back full
}

// GetTransactionsHandler returns a page of the caller's wallet ledger
func GetTransactionsHandler(eng *wallet.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		limit := 50 // Default page size
		offset := 0 // Default offset
		if l := c.Query("limit"); l != "" {
			v, err := strconv.Atoi(l)
			if err != nil {
				fail(c, http.StatusBadRequest, "Limit must be between 1 and 100", "VALIDATION_ERROR")
				return
			}
			limit = v
		}
		if o := c.Query("offset"); o != "" {
			v, err := strconv.Atoi(o)
			if err != nil {
				fail(c, http.StatusBadRequest, "Offset must be a non-negative number", "VALIDATION_ERROR")
				return
			}
			offset = v
		}
		ctx := c.Request.Context()
		cacheKey := utils.TxCacheKey(userID, limit, offset)
		if rdb != nil {
			var page txPage
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &page); err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"transactions":       page.Transactions,
					"total_transactions": page.Total,
					"pagination":         gin.H{"limit": page.Limit, "offset": page.Offset, "has_more": page.HasMore},
				})
				return
			}
		}
		txs, hasMore, err := eng.Transactions(ctx, userID, limit, offset)
		if err != nil {
			if errors.Is(err, wallet.ErrInvalidPagination) {
				fail(c, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
				return
			}
			fail(c, http.StatusInternalServerError, "Could not fetch transaction history", "DB_ERROR")
			return
		}
		if txs == nil {
			txs = []domain.Transaction{}
		}
		page := txPage{Transactions: txs, Total: len(txs), Limit: limit, Offset: offset, HasMore: hasMore}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, page, cacheTTL) // Cache the page
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions":       page.Transactions,
			"total_transactions": page.Total,
			"pagination":         gin.H{"limit": limit, "offset": offset, "has_more": hasMore},
		})
	}
}
