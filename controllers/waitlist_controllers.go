package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-waitlist/lifecycle"
	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/utils"
	"gorm.io/gorm"
)

type WaitlistController struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Controller
}

func NewWaitlistController(db *gorm.DB, lc *lifecycle.Controller) *WaitlistController {
	return &WaitlistController{DB: db, Lifecycle: lc}
}

// GetAllCheckIns -> seluruh check-in, opsional filter status
func (wc *WaitlistController) GetAllCheckIns(c *gin.Context) {
	query := wc.DB.Order("check_in_time ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var entries []models.CheckIn
	if err := query.Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of check-ins", entries)
}

// Reorder -> staff memindahkan entry ke posisi baru (absolut)
func (wc *WaitlistController) Reorder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var body struct {
		Position int `json:"position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := wc.Lifecycle.Reorder(uint(id), body.Position); err != nil {
		respondDomainError(c, err)
		return
	}

	entries, err := wc.Lifecycle.Engine.Waiting()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queue position updated", entries)
}

// Seat -> staff mendudukkan entry di meja pilihan
func (wc *WaitlistController) Seat(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var body struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry, err := wc.Lifecycle.Seat(uint(id), body.TableID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Party seated", entry)
}

// Cancel -> entry waiting dibatalkan
func (wc *WaitlistController) Cancel(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := wc.Lifecycle.Cancel(uint(id)); err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Check-in cancelled", gin.H{"id": id})
}

// DeleteCheckIn -> hapus permanen record check-in
func (wc *WaitlistController) DeleteCheckIn(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := wc.Lifecycle.Delete(uint(id)); err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Check-in deleted", gin.H{"id": id})
}
