package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/models"
	"dishes-be/internal/service"
)

const userNotFound = "User not found"

type UserController struct {
	userService service.UserService
	log         logrus.FieldLogger
}

func NewUserController(userService service.UserService, log logrus.FieldLogger) *UserController {
	return &UserController{
		userService: userService,
		log:         log,
	}
}

// ListUsers handles GET /users
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, uc.log, err, userNotFound)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, uc.log, err, userNotFound)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /users/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.userService.UpdateUser(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		respondError(c, uc.log, err, userNotFound)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := uc.userService.DeleteUser(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondError(c, uc.log, err, userNotFound)
		return
	}

	c.JSON(http.StatusOK, user)
}
