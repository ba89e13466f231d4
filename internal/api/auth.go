package api

import (
	"errors"   // Sentinel error checks
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"vaultbank/internal/auth"   // Credential policy
	"vaultbank/internal/domain" // Record models
	"vaultbank/internal/store"  // Record-store adapter
	"vaultbank/internal/utils"  // JWT utilities

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Zero opening balance
	"github.com/sirupsen/logrus"    // Logging library
	"golang.org/x/crypto/bcrypt"    // Password hashing
)

// RegisterRequest carries a new user's credentials
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"` // Display name
	Phone    string `json:"phone" binding:"required"`      // Login identity
	Password string `json:"password" binding:"required"`   // Plain password, hashed before storage
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`    // Login identity
	Password string `json:"password" binding:"required"` // Plain password
}

// RegisterHandler creates a user and their wallet as one unit
func RegisterHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			fail(c, http.StatusBadRequest, "Name, phone and password are required", "INVALID_INPUT")
			return
		}
		// Validate phone shape
		if err := auth.ValidatePhone(req.Phone); err != nil {
			fail(c, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
			return
		}
		// Validate password strength
		if err := auth.ValidatePassword(req.Password); err != nil {
			fail(c, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
			return
		}
		// Hash the password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Could not create user", "REGISTRATION_FAILED")
			return
		}
		user := &domain.User{
			ID:       uuid.New(),
			Name:     req.Name,
			Phone:    req.Phone,
			Password: string(hash),
		}
		// User and wallet are created as one unit: no user without a wallet
		err = st.Atomic(c.Request.Context(), func(s store.Store) error {
			if err := s.CreateUser(c.Request.Context(), user); err != nil {
				return err
			}
			return s.CreateWallet(c.Request.Context(), &domain.Wallet{
				UserID:  user.ID,
				Balance: decimal.Zero,
			})
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// Duplicate phone
				fail(c, http.StatusConflict, "User already exists", "USER_EXISTS")
				return
			}
			logrus.WithFields(logrus.Fields{
				"phone": req.Phone,
				"error": err.Error(),
			}).Error("Registration failed")
			fail(c, http.StatusInternalServerError, "Could not create user", "REGISTRATION_FAILED")
			return
		}
		// The user model never serializes the hash
		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// LoginHandler verifies credentials and issues a session token
func LoginHandler(st store.Store, jwtSecret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Phone and password are required", "INVALID_INPUT")
			return
		}
		user, err := st.UserByPhone(c.Request.Context(), req.Phone)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
				return
			}
			logrus.WithField("error", err.Error()).Error("Login lookup failed")
			fail(c, http.StatusInternalServerError, "Could not verify user", "DB_ERROR")
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			fail(c, http.StatusUnauthorized, "Invalid password", "WRONG_PASSWORD")
			return
		}
		// Issue a signed, time-limited token carrying the verified identity
		token, err := utils.GenerateJWT(user.ID, user.Phone, jwtSecret, ttl)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to generate token", "TOKEN_ERROR")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// GetUserHandler returns a user by id
func GetUserHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id")) // Path parameter must be a UUID
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid user id", "INVALID_INPUT")
			return
		}
		user, err := st.UserByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
				return
			}
			fail(c, http.StatusInternalServerError, "Unable to fetch user", "DB_ERROR")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// ProfileHandler returns the authenticated caller's own record
func ProfileHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}
		user, err := st.UserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
				return
			}
			fail(c, http.StatusInternalServerError, "Unable to fetch user", "DB_ERROR")
			return
		}
		// Only the public identity fields
		c.JSON(http.StatusOK, gin.H{"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"phone": user.Phone,
		}})
	}
}
