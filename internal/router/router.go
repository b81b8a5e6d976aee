package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lederhaus/lederhaus-backend/config"
	"github.com/lederhaus/lederhaus-backend/internal/app/controller"
	"github.com/lederhaus/lederhaus-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	reviewController  *controller.ReviewController
	userController    *controller.UserController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	reviewController *controller.ReviewController,
	userController *controller.UserController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		reviewController:  reviewController,
		userController:    userController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "LEDERHAUS API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		products := api.Group("/products")
		{
			products.GET("/public", r.productController.ListProducts)
			products.GET("/public/:id", r.productController.GetProduct)

			admin := products.Group("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
			)
			{
				admin.GET("", r.productController.ListProducts)
				admin.GET("/:id", r.productController.GetProduct)
				admin.POST("", r.productController.CreateProduct)
				admin.PUT("/:id", r.productController.UpdateProduct)
				admin.DELETE("/:id", r.productController.DeleteProduct)
			}
		}

		comments := api.Group("/comments")
		{
			comments.GET("", r.reviewController.GetComments)
			comments.POST("", r.reviewController.CreateComment)
			comments.GET("/stats/:productId", r.reviewController.GetProductStats)
			comments.PUT("/:id/like", r.reviewController.LikeComment)
			comments.PUT("/:id/report", r.reviewController.ReportComment)

			admin := comments.Group("/admin",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
			)
			{
				admin.GET("/pending", r.reviewController.GetPendingComments)
				admin.GET("/export", r.reviewController.ExportComments)
				admin.PUT("/:id/approve", r.reviewController.ApproveComment)
				admin.DELETE("/:id", r.reviewController.DeleteComment)
			}
		}

		users := api.Group("/users",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			users.GET("", r.userController.ListUsers)
			users.GET("/:id", r.userController.GetUser)
			users.POST("", r.userController.CreateUser)
			users.PUT("/:id", r.userController.UpdateUser)
			users.DELETE("/:id", r.userController.DeleteUser)
		}

		upload := api.Group("/upload",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			upload.POST("/image", r.uploadController.GenerateUploadURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
