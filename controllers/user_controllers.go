package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func validRole(role string) bool {
	switch role {
	case models.RoleNormal, models.RoleAdmin, models.RoleKitchen:
		return true
	}
	return false
}

// Register -> creates the credentials and the role row together, mirroring
// the account-creation endpoint's {email, password, role} contract.
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !validRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown role %q", req.Role))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	name := req.Name
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	user := models.User{
		Name:     name,
		Email:    req.Email,
		Password: string(hashed),
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: user.ID, Role: req.Role}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, req.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"success": true,
		"user_id": user.ID,
	})
}

// Login -> returns a JWT carrying the user id and role.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	var userRole models.UserRole
	if err := uc.DB.Where("user_id = ?", user.ID).First(&userRole).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("no role assigned to user"))
		return
	}

	token, err := utils.GenerateToken(user.ID, userRole.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful: %s (role=%s)", user.Email, userRole.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": userRole.Role,
	})
}

// Logout -> revokes the presented token.
func (uc *UserController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no token to revoke"))
		return
	}
	utils.BlacklistToken(token)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> the identity and role behind the presented token.
func (uc *UserController) GetProfile(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  c.GetString("role"),
	})
}

// GetAllUsers -> every account with its role (admin only, enforced by the
// route group).
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var roles []models.UserRole
	if err := uc.DB.Preload("User").Find(&roles).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type row struct {
		UserID uint   `json:"user_id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	out := make([]row, 0, len(roles))
	for _, r := range roles {
		out = append(out, row{UserID: r.UserID, Name: r.User.Name, Email: r.User.Email, Role: r.Role})
	}

	utils.RespondJSON(c, http.StatusOK, "All users", out)
}

// UpdateUserRole -> reassigns one user's role.
func (uc *UserController) UpdateUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !validRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown role %q", req.Role))
		return
	}

	var userRole models.UserRole
	if err := uc.DB.Where("user_id = ?", c.Param("user_id")).First(&userRole).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userRole.Role = req.Role
	if err := uc.DB.Model(&userRole).Update("role", req.Role).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %d role changed to %s", userRole.UserID, req.Role)
	utils.RespondJSON(c, http.StatusOK, "Role updated", userRole)
}
