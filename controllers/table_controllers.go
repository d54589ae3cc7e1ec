package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-waitlist/hub"
	"github.com/yeremiapane/restaurant-waitlist/lifecycle"
	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Controller
}

func NewTableController(db *gorm.DB, lc *lifecycle.Controller) *TableController {
	return &TableController{DB: db, Lifecycle: lc}
}

// CreateTable -> admin menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest, &CustomError{"Capacity must be at least 1"})
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      models.TableStatusFree,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.broadcastTables()
	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTable -> admin mengubah nomor/kapasitas meja
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var body struct {
		TableNumber string `json:"table_number"`
		Capacity    int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.TableNumber != "" {
		table.TableNumber = body.TableNumber
	}
	if body.Capacity > 0 {
		table.Capacity = body.Capacity
	}
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.broadcastTables()
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// UpdateTableStatus -> staff memutar status meja (free/engaged/cleaning).
// Saat meja menjadi free, response menyertakan kandidat antrian yang diusulkan
// (atau yang langsung di-seat bila auto-assign menyala).
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("table_id"))

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, candidate, err := tc.Lifecycle.ReleaseTable(uint(id), body.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table status updated", gin.H{
		"table":     table,
		"candidate": candidate,
	})
}

// GetCandidate -> usulan entry antrian untuk satu meja (advisory)
func (tc *TableController) GetCandidate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("table_id"))

	candidate, err := tc.Lifecycle.CandidateForTable(uint(id))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if candidate == nil {
		utils.RespondJSON(c, http.StatusOK, "No suitable waiting party", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Candidate for table", candidate)
}

// SuggestTables -> meja free yang muat untuk rombongan, tightest fit dulu
func (tc *TableController) SuggestTables(c *gin.Context) {
	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil || partySize < 1 {
		utils.RespondError(c, http.StatusBadRequest, &CustomError{"party_size must be a positive integer"})
		return
	}

	tables, err := tc.Lifecycle.TablesFor(partySize)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Candidate tables", tables)
}

// FindTablesByStatus -> mis. list meja free
func (tc *TableController) FindTablesByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		status = models.TableStatusFree
	}
	var tables []models.Table
	if err := tc.DB.Where("status = ?", status).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables with status: "+status, tables)
}

// DeleteTable -> admin menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.broadcastTables()
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

func (tc *TableController) broadcastTables() {
	var tables []models.Table
	if err := tc.DB.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching tables for broadcast: %v", err)
		return
	}
	hub.BroadcastTableUpdate(tables)
}
