package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mkowalski/homelibrary/internal/auth"
	"github.com/mkowalski/homelibrary/internal/database/users"
)

// ProfileController exposes the authenticated user's own profile.
type ProfileController struct {
	store       ProfileStore
	authService *auth.Service
}

// NewProfileController creates a new profile controller.
func NewProfileController(store ProfileStore, authService *auth.Service) *ProfileController {
	return &ProfileController{store: store, authService: authService}
}

type profileUpdateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// GetProfile returns the caller's profile.
func (ctrl *ProfileController) GetProfile(c *gin.Context) {
	user, err := ctrl.store.GetUserByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}
	c.JSON(200, gin.H{"user": user})
}

// UpdateProfile changes email and full name. The new email must not belong
// to another account.
func (ctrl *ProfileController) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := GetUserID(c)
	if existing, err := ctrl.store.GetUserByEmail(req.Email); err == nil && existing.ID != userID {
		respondBadRequest(c, "email is already in use")
		return
	} else if err != nil && !errors.Is(err, users.ErrNotFound) {
		respondInternalError(c, err, "check email")
		return
	}

	updated, err := ctrl.store.UpdateProfile(userID, req.Email, req.FullName)
	if err != nil {
		respondInternalError(c, err, "update profile")
		return
	}
	if !updated {
		respondNotFound(c, "user")
		return
	}
	respondSuccess(c, "Profile updated successfully")
}

// ChangePassword verifies the current password and stores a new one.
func (ctrl *ProfileController) ChangePassword(c *gin.Context) {
	var req passwordChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	err := ctrl.authService.ChangePassword(GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			c.JSON(401, ErrorResponse{Error: "current password is incorrect"})
		case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		case errors.Is(err, users.ErrNotFound):
			respondNotFound(c, "user")
		default:
			respondInternalError(c, err, "change password")
		}
		return
	}
	respondSuccess(c, "Password changed successfully")
}
