package router

import (
	"time"

	"budgetbuddy/api"
	"budgetbuddy/config"
	_ "budgetbuddy/docs"
	"budgetbuddy/middleware"
	"budgetbuddy/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter builds the HTTP routing tree.
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	mlClient := service.NewMLClient(&cfg.ML)

	v1 := r.Group("/api/v1")
	{
		// auth routes, no token required
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			accountHandler := api.NewAccountHandler()
			accounts := authorized.Group("/accounts")
			{
				accounts.POST("", accountHandler.Create)
				accounts.GET("", accountHandler.List)
				accounts.PUT("/balance", accountHandler.UpdateBalance)
			}

			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.POST("", categoryHandler.Create)
				categories.GET("", categoryHandler.List)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			budgetHandler := api.NewBudgetHandler()
			budgets := authorized.Group("/budgets")
			{
				budgets.PUT("/overall", budgetHandler.Set)
				budgets.GET("/overall", budgetHandler.Get)
				budgets.GET("/spending", budgetHandler.Spending)
			}

			billHandler := api.NewBillHandler()
			bills := authorized.Group("/bills")
			{
				bills.POST("", billHandler.Create)
				bills.GET("", billHandler.List)
				bills.PUT("/:id/pay", billHandler.Pay)
			}

			goalHandler := api.NewGoalHandler()
			goals := authorized.Group("/goals")
			{
				goals.POST("", goalHandler.Create)
				goals.GET("", goalHandler.List)
				goals.DELETE("/:id", goalHandler.Delete)
			}

			futurePlanHandler := api.NewFuturePlanHandler(mlClient)
			futurePlans := authorized.Group("/future-plans")
			{
				futurePlans.POST("", futurePlanHandler.Create)
				futurePlans.GET("", futurePlanHandler.List)
				futurePlans.DELETE("/:id", futurePlanHandler.Delete)
			}

			reportHandler := api.NewReportHandler()
			authorized.GET("/reports", reportHandler.Get)

			exportHandler := api.NewExportHandler()
			authorized.GET("/export/xlsx", exportHandler.Transactions)

			mlHandler := api.NewMLHandler(mlClient)
			ml := authorized.Group("/ml")
			{
				ml.GET("/health", mlHandler.Health)
				ml.POST("/train", mlHandler.Train)
				ml.GET("/predictions", mlHandler.Predictions)
				ml.POST("/goals/timeline", mlHandler.GoalTimeline)
				ml.POST("/goals/reverse-plan", mlHandler.ReversePlan)
				ml.POST("/insights", mlHandler.Insights)
				ml.GET("/insights/summary", mlHandler.InsightsSummary)
			}
		}
	}

	return r
}

// CORSMiddleware allows cross-origin requests from web clients.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
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
