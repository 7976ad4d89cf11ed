package api

import (
	"budgetbuddy/config"
	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"password123"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse is the login result.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates a new user.
// @Summary Register
// @Description Create a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration info"
// @Success 200 {object} Response{data=models.User} "registered"
// @Failure 400 {object} Response "invalid request"
// @Failure 500 {object} Response "server error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		BadRequest(c, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create user failed"))
		return
	}

	logrus.WithField("user_id", user.ID).Info("user registered")
	SuccessWithMessage(c, "registered", user)
}

// Login authenticates a user and returns a JWT.
// @Summary Login
// @Description Authenticate with email and password, returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response{data=LoginResponse} "logged in"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "wrong email or password"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Unauthorized(c, "wrong email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "wrong email or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Name, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "token generation failed")
		return
	}

	SuccessWithMessage(c, "login successful", LoginResponse{Token: token, User: user})
}
