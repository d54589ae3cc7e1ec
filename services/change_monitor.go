package services

import (
	"time"

	"github.com/yeremiapane/restaurant-waitlist/hub"
	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/utils"
	"gorm.io/gorm"
)

// ChangeMonitor mem-polling tabel db_changes yang diisi trigger database dan
// menyiarkan ulang daftar otoritatif lengkap ke semua subscriber. Penulis di
// luar proses ini (admin tool, instance lain) tetap tersiarkan lewat jalur
// ini. Kontraknya at-least-once full refresh: perubahan yang menumpuk dalam
// satu batch cukup memicu satu broadcast per collection.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}
	if len(changes) == 0 {
		tx.Commit()
		return
	}

	// satu broadcast per collection per batch, bukan per baris
	touched := make(map[string]bool)
	for _, change := range changes {
		touched[change.TableName] = true

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		tx.Rollback()
		return
	}

	if touched[hub.CollectionCheckIns] {
		cm.rebroadcastWaitlist()
	}
	if touched[hub.CollectionTables] {
		cm.rebroadcastTables()
	}
	utils.InfoLogger.Printf("Processed %d change rows", len(changes))
}

func (cm *ChangeMonitor) rebroadcastWaitlist() {
	var entries []models.CheckIn
	if err := cm.DB.Where("status = ?", models.CheckInStatusWaiting).
		Order("queue_position ASC, check_in_time ASC").
		Find(&entries).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching waiting list: %v", err)
		return
	}
	hub.BroadcastWaitlistUpdate(entries)
}

func (cm *ChangeMonitor) rebroadcastTables() {
	var tables []models.Table
	if err := cm.DB.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching tables: %v", err)
		return
	}
	hub.BroadcastTableUpdate(tables)
}
