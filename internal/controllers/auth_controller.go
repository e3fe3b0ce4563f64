package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/models"
	"dishes-be/internal/service"
)

type AuthController struct {
	authService service.AuthService
	log         logrus.FieldLogger
}

func NewAuthController(authService service.AuthService, log logrus.FieldLogger) *AuthController {
	return &AuthController{
		authService: authService,
		log:         log,
	}
}

// Register handles POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := ac.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ac.log, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ac.log, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, response)
}
