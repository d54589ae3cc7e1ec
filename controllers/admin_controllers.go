package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> statistik ringkas untuk dashboard staff
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var freeCount, engagedCount, cleaningCount int64
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusFree).Count(&freeCount)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusEngaged).Count(&engagedCount)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusCleaning).Count(&cleaningCount)

	var waitingCount, seatedCount, cancelledCount int64
	ac.DB.Model(&models.CheckIn{}).Where("status = ?", models.CheckInStatusWaiting).Count(&waitingCount)
	ac.DB.Model(&models.CheckIn{}).Where("status = ?", models.CheckInStatusSeated).Count(&seatedCount)
	ac.DB.Model(&models.CheckIn{}).Where("status = ?", models.CheckInStatusCancelled).Count(&cancelledCount)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"tables": gin.H{
			"free":     freeCount,
			"engaged":  engagedCount,
			"cleaning": cleaningCount,
			"total":    freeCount + engagedCount + cleaningCount,
		},
		"check_ins": gin.H{
			"waiting":   waitingCount,
			"seated":    seatedCount,
			"cancelled": cancelledCount,
		},
	})
}
