package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mkowalski/homelibrary/internal/auth"
)

// AuthController exposes account registration and sign-in.
type AuthController struct {
	service *auth.Service
}

// NewAuthController creates a new auth controller.
func NewAuthController(service *auth.Service) *AuthController {
	return &AuthController{service: service}
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

type signinRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new account.
func (ctrl *AuthController) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.service.SignUp(req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken),
			errors.Is(err, auth.ErrEmailTaken),
			errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "signup")
		}
		return
	}

	respondCreated(c, gin.H{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// Signin checks credentials and returns an access token.
func (ctrl *AuthController) Signin(c *gin.Context) {
	var req signinRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := ctrl.service.SignIn(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, auth.ErrInvalidPassword):
			c.JSON(401, ErrorResponse{Error: "invalid password"})
		default:
			respondInternalError(c, err, "signin")
		}
		return
	}

	c.JSON(200, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"full_name": user.FullName,
		},
		"access_token": token,
	})
}
