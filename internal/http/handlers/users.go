package handlers

import (
	"net/http"
	"strings"

	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GET /api/users
func GetUsers(c *gin.Context) {
	users := repositories.UserRepository{}
	out, err := users.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	users := repositories.UserRepository{}
	user, err := users.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type createUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Username = utils.TrimOrEmpty(req.Username)
	req.FullName = utils.TrimOrEmpty(req.FullName)
	if req.Username == "" || req.FullName == "" {
		RespondError(c, http.StatusBadRequest, "username and full_name are required", nil)
		return
	}
	if len(req.Password) < 6 {
		RespondError(c, http.StatusBadRequest, "password must be at least 6 characters", nil)
		return
	}
	role := strings.ToLower(utils.TrimOrEmpty(req.Role))
	if role == "" {
		role = models.RoleAttendant
	}
	if !models.ValidUserRole(role) {
		RespondError(c, http.StatusBadRequest, "role must be manager or attendant", nil)
		return
	}

	users := repositories.UserRepository{}
	exists, err := users.CountByLogin(req.Username, req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists > 0 {
		RespondError(c, http.StatusConflict, "username or email already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Username:  req.Username,
		FullName:  req.FullName,
		Email:     utils.TrimOrEmpty(req.Email),
		Phone:     utils.TrimOrEmpty(req.Phone),
		Role:      role,
		IsActive:  true,
		CreatedAt: utils.NowUTC(),
	}
	if err := users.Insert(&user, string(hash)); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	users := repositories.UserRepository{}
	user, err := users.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if req.FullName != nil {
		user.FullName = utils.TrimOrEmpty(*req.FullName)
	}
	if req.Email != nil {
		user.Email = utils.TrimOrEmpty(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = utils.TrimOrEmpty(*req.Phone)
	}
	if req.Role != nil {
		role := strings.ToLower(utils.TrimOrEmpty(*req.Role))
		if !models.ValidUserRole(role) {
			RespondError(c, http.StatusBadRequest, "role must be manager or attendant", nil)
			return
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := users.Update(user); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
