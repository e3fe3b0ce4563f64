package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/controllers"
	"dishes-be/internal/jwt"
	"dishes-be/internal/middleware"
)

// Deps are the handlers and middleware the route table is built from.
type Deps struct {
	Auth   *controllers.AuthController
	Users  *controllers.UserController
	Dishes *controllers.DishController
	QRCode *controllers.QRCodeController

	JWT *jwt.JWTService
	Log logrus.FieldLogger

	GeneralLimiter *middleware.RateLimiter
	AuthLimiter    *middleware.RateLimiter
	LikeLimiter    *middleware.RateLimiter
}

// New builds the gin engine with every route mounted.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	// Health check endpoint (no rate limiting)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("")
	api.Use(d.GeneralLimiter.LimitMiddleware())

	requireAuth := middleware.AuthMiddleware(d.JWT)

	auth := api.Group("/auth")
	auth.Use(d.AuthLimiter.LimitMiddleware())
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
	}

	users := api.Group("/users")
	{
		users.GET("", d.Users.ListUsers)
		users.GET("/:id", d.Users.GetUser)
		users.PUT("/:id", requireAuth, d.Users.UpdateUser)
		users.DELETE("/:id", requireAuth, d.Users.DeleteUser)
	}

	dishes := api.Group("/dishes")
	{
		dishes.GET("", d.Dishes.ListDishes)
		dishes.POST("", requireAuth, d.Dishes.CreateDish)
		dishes.GET("/liked", requireAuth, d.Dishes.ListLikedDishes)
		dishes.GET("/user/:id", d.Dishes.ListDishesByOwner)
		dishes.GET("/:id", d.Dishes.GetDish)
		dishes.GET("/:id/qrcode", d.QRCode.GenerateQRCode)
		dishes.PUT("/:id", requireAuth, d.Dishes.UpdateDish)
		dishes.DELETE("/:id", requireAuth, d.Dishes.DeleteDish)
		dishes.POST("/like/:id", requireAuth, d.LikeLimiter.LimitMiddleware(), d.Dishes.ToggleLike)
		dishes.POST("/:id/comments", requireAuth, d.Dishes.AddComment)
	}

	return r
}
