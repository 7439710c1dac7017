package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/controllers"
	"github.com/laselecta/mesa-manager/middlewares"
	"github.com/laselecta/mesa-manager/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// 50 requests per second per IP across the whole surface; login and
	// register carry their own stricter limiter below.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(db)
	settleCtrl := controllers.NewSettlementController(db)
	menuCtrl := controllers.NewMenuController(db)
	sodaCtrl := controllers.NewSodaController(db)
	kitchenCtrl := controllers.NewKitchenController(db)
	billingCtrl := controllers.NewBillingController(db)
	accountingCtrl := controllers.NewAccountingController(db)
	expenseCtrl := controllers.NewExpenseController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Login and register sit behind the strict limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Realtime feed. Auth runs first so the hub knows the client's role.
	r.GET("/kds/ws", middlewares.AuthMiddleware(db), controllers.KDSHandler)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(db))

	api.POST("/logout", userCtrl.Logout)
	api.GET("/profile", userCtrl.GetProfile)

	// FLOOR PLAN
	api.GET("/tables", tableCtrl.GetAllTables)
	api.GET("/tables/by-status", tableCtrl.FindTablesByStatus)
	api.GET("/tables/stats", tableCtrl.GetFloorStats)
	api.GET("/tables/:table_id", tableCtrl.GetTableByID)
	api.PATCH("/tables/:table_id", tableCtrl.UpdateTable)

	// ORDER EDITOR
	api.POST("/tables/:table_id/lines/food", orderCtrl.AddFoodLine)
	api.POST("/tables/:table_id/lines/drinks", orderCtrl.AddDrinkLine)
	api.DELETE("/tables/:table_id/lines/:line_id", orderCtrl.RemoveLine)
	api.POST("/tables/:table_id/confirm", orderCtrl.ConfirmOrder)

	// SETTLEMENT
	api.POST("/tables/:table_id/settle", settleCtrl.SettleTable)
	api.GET("/history", settleCtrl.GetOrderHistory)
	api.GET("/history/:history_id/invoice", settleCtrl.GetInvoice)

	// QUICK BILLING
	api.POST("/billing", billingCtrl.QuickBill)
	api.GET("/billing/sales", billingCtrl.GetSales)
	api.GET("/billing/sales/:sale_id/invoice", billingCtrl.GetSaleInvoice)

	// CATALOG (reads)
	api.GET("/menus", menuCtrl.GetAllMenus)
	api.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	api.GET("/sodas", sodaCtrl.GetAllSodas)
	api.GET("/sodas/low-stock", sodaCtrl.GetLowStock)
	api.GET("/sodas/:soda_id", sodaCtrl.GetSodaByID)

	// ACCOUNTING
	api.GET("/accounting/daily", accountingCtrl.GetDailyTotals)
	api.GET("/accounting/daily/chart", accountingCtrl.GetDailyChart)
	api.GET("/accounting/daily/:date", accountingCtrl.GetDayDetail)
	api.GET("/accounting/monthly", accountingCtrl.GetMonthlySummary)
	api.GET("/accounting/expenses", expenseCtrl.GetExpenses)
	api.POST("/accounting/expenses", expenseCtrl.CreateExpense)
	api.DELETE("/accounting/expenses/:expense_id", expenseCtrl.DeleteExpense)
	api.GET("/accounting/cash-register", expenseCtrl.GetCashRegister)
	api.POST("/accounting/cash-register/open", expenseCtrl.OpenCashRegister)
	api.POST("/accounting/cash-register/close", expenseCtrl.CloseCashRegister)

	// KITCHEN (kitchen role; admin passes every check)
	kitchen := api.Group("/kitchen")
	kitchen.Use(middlewares.RequireRole(models.RoleKitchen))
	{
		kitchen.GET("/orders", kitchenCtrl.GetOrders)
		kitchen.PATCH("/orders/:order_id/status", kitchenCtrl.AdvanceStatus)
	}

	// ADMIN
	admin := api.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		admin.POST("/sodas", sodaCtrl.CreateSoda)
		admin.PATCH("/sodas/:soda_id", sodaCtrl.UpdateSoda)
		admin.DELETE("/sodas/:soda_id", sodaCtrl.DeleteSoda)

		admin.GET("/users", userCtrl.GetAllUsers)
		admin.PATCH("/users/:user_id/role", userCtrl.UpdateUserRole)
	}

	return r
}
