package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-waitlist/config"
	"github.com/yeremiapane/restaurant-waitlist/controllers"
	"github.com/yeremiapane/restaurant-waitlist/lifecycle"
	"github.com/yeremiapane/restaurant-waitlist/middlewares"
	"github.com/yeremiapane/restaurant-waitlist/queue"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi engine + lifecycle, satu instance untuk seluruh proses
	engine := queue.NewEngine(db)
	lc := lifecycle.NewController(db, engine)
	lc.AutoAssign = config.AutoAssignEnabled()

	checkInCtrl := controllers.NewCheckInController(db, lc)
	waitlistCtrl := controllers.NewWaitlistController(db, lc)
	tableCtrl := controllers.NewTableController(db, lc)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES (tamu)
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk check-in publik
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/check-in", checkInCtrl.CheckIn)
	}

	r.GET("/waiting", checkInCtrl.GetWaitingList)
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/by-status", tableCtrl.FindTablesByStatus)

	// WebSocket real-time dashboard
	r.GET("/ws/:role", controllers.WaitlistSocketHandler)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/staff")

	staff.GET("/check-ins", waitlistCtrl.GetAllCheckIns)
	staff.PATCH("/waiting/:id/position", waitlistCtrl.Reorder)
	staff.POST("/waiting/:id/seat", waitlistCtrl.Seat)
	staff.POST("/waiting/:id/cancel", waitlistCtrl.Cancel)
	staff.DELETE("/waiting/:id", waitlistCtrl.DeleteCheckIn)

	staff.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	staff.GET("/tables/:table_id/candidate", tableCtrl.GetCandidate)
	staff.GET("/tables/suggest", tableCtrl.SuggestTables)

	staff.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES (kelola meja)
	// ----------------------------------------------------------------
	admin := r.Group("/admin")

	admin.POST("/tables", tableCtrl.CreateTable)
	admin.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	return r
}
