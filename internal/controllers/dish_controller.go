package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/models"
	"dishes-be/internal/service"
)

const dishNotFound = "Dish not found"

type DishController struct {
	dishService service.DishService
	log         logrus.FieldLogger
}

func NewDishController(dishService service.DishService, log logrus.FieldLogger) *DishController {
	return &DishController{
		dishService: dishService,
		log:         log,
	}
}

// CreateDish handles POST /dishes
func (dc *DishController) CreateDish(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dish, err := dc.dishService.CreateDish(c.Request.Context(), ownerID, &req)
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusCreated, dish)
}

// ListDishes handles GET /dishes
func (dc *DishController) ListDishes(c *gin.Context) {
	dishes, err := dc.dishService.ListDishes(c.Request.Context())
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusOK, dishes)
}

// GetDish handles GET /dishes/:id
func (dc *DishController) GetDish(c *gin.Context) {
	dish, err := dc.dishService.GetDish(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusOK, dish)
}

// ListDishesByOwner handles GET /dishes/user/:id
func (dc *DishController) ListDishesByOwner(c *gin.Context) {
	dishes, err := dc.dishService.ListDishesByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusOK, dishes)
}

// ListLikedDishes handles GET /dishes/liked - dishes the caller likes
func (dc *DishController) ListLikedDishes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	dishes, err := dc.dishService.ListDishesLikedBy(c.Request.Context(), userID)
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusOK, dishes)
}

// UpdateDish handles PUT /dishes/:id
func (dc *DishController) UpdateDish(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dish, err := dc.dishService.UpdateDish(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusOK, dish)
}

// DeleteDish handles DELETE /dishes/:id
func (dc *DishController) DeleteDish(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		return
	}

	dish, err := dc.dishService.DeleteDish(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusOK, dish)
}

// ToggleLike handles POST /dishes/like/:id
func (dc *DishController) ToggleLike(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	dish, err := dc.dishService.ToggleLike(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusOK, dish)
}

// AddComment handles POST /dishes/:id/comments
func (dc *DishController) AddComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dish, err := dc.dishService.AddComment(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, dc.log, err, dishNotFound)
		return
	}

	c.JSON(http.StatusCreated, dish)
}
