package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-waitlist/lifecycle"
	"github.com/yeremiapane/restaurant-waitlist/utils"
	"gorm.io/gorm"
)

type CheckInController struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Controller
}

func NewCheckInController(db *gorm.DB, lc *lifecycle.Controller) *CheckInController {
	return &CheckInController{DB: db, Lifecycle: lc}
}

// CheckIn -> tamu mendaftar ke waiting list
func (cc *CheckInController) CheckIn(c *gin.Context) {
	var req struct {
		PartySize     int    `json:"party_size" binding:"required"`
		ContactNumber string `json:"contact_number" binding:"required"`
		HasSeniors    bool   `json:"has_seniors"`
		SeniorCount   int    `json:"senior_count"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry, err := cc.Lifecycle.CheckIn(lifecycle.CheckInRequest{
		PartySize:     req.PartySize,
		ContactNumber: req.ContactNumber,
		HasSeniors:    req.HasSeniors,
		SeniorCount:   req.SeniorCount,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("New check-in: party of %d at position %d", entry.PartySize, entry.QueuePosition)
	utils.RespondJSON(c, http.StatusCreated, "Check-in successful", entry)
}

// GetWaitingList -> waiting list otoritatif, terurut posisi
func (cc *CheckInController) GetWaitingList(c *gin.Context) {
	entries, err := cc.Lifecycle.Engine.Waiting()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiting list", entries)
}
