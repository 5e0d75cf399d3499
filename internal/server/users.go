package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/medplat/internal/auth"
	"github.com/Skufu/medplat/internal/store"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

// register creates a user account.
// @Summary Register
// @Tags users
// @Accept json
// @Produce json
// @Param body body registerRequest true "Account"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /register [post]
func (a *API) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, password, and role are required."})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err, "Registration failed")
		return
	}
	err = a.store.CreateUser(c.Request.Context(), store.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		Email:        req.Email,
	})
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists."})
		return
	}
	if err != nil {
		writeError(c, err, "Registration failed")
		return
	}
	a.logger.Info("user registered", "username", req.Username, "role", req.Role)
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login checks credentials and returns the bearer token.
// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "status, token, role"
// @Failure 401 {object} map[string]interface{}
// @Router /token [post]
func (a *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, err := a.store.GetUser(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(c, err, "Failed to authenticate user")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  auth.IssueToken(user),
		"role":   user.Role,
	})
}

func (a *API) me(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}})
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
	Password    string `json:"password"`
}

func (a *API) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	password := req.NewPassword
	if password == "" {
		password = req.Password
	}
	if password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password is required"})
		return
	}

	user, _ := auth.CurrentUser(c)
	hash, err := auth.HashPassword(password)
	if err != nil {
		writeError(c, err, "Failed to update password")
		return
	}
	if err := a.store.UpdatePassword(c.Request.Context(), user.Username, hash); err != nil {
		writeError(c, err, "Failed to update password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (a *API) listUsers(c *gin.Context) {
	users, err := a.store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type setRoleRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// setRole changes a non-admin user's role. Admin cannot be granted or revoked
// through the API.
func (a *API) setRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.Username == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and role are required"})
		return
	}
	if req.Role == auth.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot assign admin role"})
		return
	}

	ctx := c.Request.Context()
	target, err := a.store.GetUser(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		writeError(c, err, "Failed to update role")
		return
	}
	if target.Role == auth.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot change role of an admin"})
		return
	}

	if err := a.store.SetRole(ctx, req.Username, req.Role); err != nil {
		writeError(c, err, "Failed to update role")
		return
	}
	a.logger.Info("role updated", "username", req.Username, "role", req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}
