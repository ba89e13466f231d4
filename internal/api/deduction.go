package api

import (
	"net/http" // HTTP status codes
	"time"     // Sweep reference time

	"vaultbank/internal/deduction" // Deduction sweeper
	"vaultbank/internal/utils"     // Cache invalidation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// SimulateDeductionsHandler runs the sweep over all vaults. Cron-facing:
// triggered externally, no bearer token.
func SimulateDeductionsHandler(sw *deduction.Sweeper, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := sw.Sweep(c.Request.Context(), time.Now())
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Deduction sweep failed")
			fail(c, http.StatusInternalServerError, "Could not simulate deductions", "DB_ERROR")
			return
		}
		// Deducted wallets have stale cached balance views
		for _, r := range results {
			utils.InvalidateWalletCaches(c.Request.Context(), rdb, r.UserID)
		}
		logrus.WithField("deducted", len(results)).Info("Deduction sweep completed")
		c.JSON(http.StatusOK, gin.H{"message": "Deductions simulated", "results": results})
	}
}
