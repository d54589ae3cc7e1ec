package lifecycle

import (
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-waitlist/hub"
	"github.com/yeremiapane/restaurant-waitlist/matching"
	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/queue"
	"github.com/yeremiapane/restaurant-waitlist/utils"
	"gorm.io/gorm"
)

var ErrInvalidPartySize = errors.New("party size must be at least 1")

// Controller menegakkan transisi status check-in dan meja, lalu memicu efek
// samping yang dituntut tiap transisi: renumbering lewat queue.Engine dan
// broadcast snapshot lewat hub. Tidak ada retry internal; semua kegagalan
// dikembalikan ke caller.
type Controller struct {
	DB     *gorm.DB
	Engine *queue.Engine

	// AutoAssign: saat meja dibebaskan, kandidat teratas langsung di-seat.
	// Default mati: matching hanya advisory, staff yang commit.
	AutoAssign bool
}

func NewController(db *gorm.DB, engine *queue.Engine) *Controller {
	return &Controller{DB: db, Engine: engine}
}

type CheckInRequest struct {
	PartySize     int
	ContactNumber string
	HasSeniors    bool
	SeniorCount   int
}

// CheckIn -> membuat entry waiting baru di ekor antrian
func (lc *Controller) CheckIn(req CheckInRequest) (*models.CheckIn, error) {
	if req.PartySize < 1 {
		return nil, ErrInvalidPartySize
	}

	entry := &models.CheckIn{
		PartySize:     req.PartySize,
		ContactNumber: req.ContactNumber,
		HasSeniors:    req.HasSeniors,
		SeniorCount:   req.SeniorCount,
		CheckInTime:   time.Now(),
	}
	if !req.HasSeniors {
		entry.SeniorCount = 0
	}

	if err := lc.Engine.Enqueue(entry); err != nil {
		return nil, err
	}

	lc.broadcastWaitlist()
	return entry, nil
}

// Seat mendudukkan entry waiting di meja free berkapasitas cukup. Entry,
// meja, dan renumbering sisanya di-commit sebagai satu transaksi di bawah
// lock engine: tidak pernah ada meja engaged tanpa entry seated, atau
// sebaliknya.
func (lc *Controller) Seat(entryID, tableID uint) (*models.CheckIn, error) {
	var seated models.CheckIn

	err := lc.Engine.Exclusive(func(tx *gorm.DB) error {
		var entry models.CheckIn
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return queue.ErrNotFound
			}
			return err
		}
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return queue.ErrNotFound
			}
			return err
		}

		if !models.ValidCheckInTransition(entry.Status, models.CheckInStatusSeated) {
			return queue.ErrInvalidTransition
		}
		if table.Status != models.TableStatusFree {
			return queue.ErrInvalidTransition
		}
		if table.Capacity < entry.PartySize {
			return queue.ErrNoSuitableTable
		}

		now := time.Now()
		entry.Status = models.CheckInStatusSeated
		entry.AssignedTableID = &table.ID
		entry.SeatedTime = &now
		entry.QueuePosition = 0
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		table.Status = models.TableStatusEngaged
		table.EngagedTime = &now
		table.CleaningTime = nil
		if err := tx.Save(&table).Error; err != nil {
			return err
		}

		if err := queue.RenumberTx(tx); err != nil {
			return err
		}
		seated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Check-in %d seated at table %d", entryID, tableID)
	lc.broadcastWaitlist()
	lc.broadcastTables()
	return &seated, nil
}

// Cancel -> waiting menjadi cancelled, sisanya dirapatkan
func (lc *Controller) Cancel(entryID uint) error {
	err := lc.Engine.Exclusive(func(tx *gorm.DB) error {
		var entry models.CheckIn
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return queue.ErrNotFound
			}
			return err
		}
		if !models.ValidCheckInTransition(entry.Status, models.CheckInStatusCancelled) {
			return queue.ErrInvalidTransition
		}

		entry.Status = models.CheckInStatusCancelled
		entry.QueuePosition = 0
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		return queue.RenumberTx(tx)
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Check-in %d cancelled", entryID)
	lc.broadcastWaitlist()
	return nil
}

// Reorder -> pemindahan posisi manual oleh staff (absolut)
func (lc *Controller) Reorder(entryID uint, position int) error {
	if err := lc.Engine.MoveTo(entryID, position); err != nil {
		return err
	}
	lc.broadcastWaitlist()
	return nil
}

// Delete -> hapus permanen record check-in, posisi sisanya dirapatkan
func (lc *Controller) Delete(entryID uint) error {
	if err := lc.Engine.Remove(entryID); err != nil {
		return err
	}
	lc.broadcastWaitlist()
	return nil
}

// ReleaseTable -> staff memutar status meja (free/engaged/cleaning).
// Masuk engaged men-stamp engaged_time; masuk cleaning men-stamp
// cleaning_time dan menghapus engaged_time; masuk free menghapus keduanya.
// Saat meja menjadi free, kandidat antrian teratas diusulkan; commit hanya
// terjadi bila AutoAssign menyala.
func (lc *Controller) ReleaseTable(tableID uint, next string) (*models.Table, *models.CheckIn, error) {
	var table models.Table
	if err := lc.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, queue.ErrNotFound
		}
		return nil, nil, err
	}
	if !models.ValidTableTransition(table.Status, next) {
		return nil, nil, queue.ErrInvalidTransition
	}

	now := time.Now()
	switch next {
	case models.TableStatusEngaged:
		table.EngagedTime = &now
		table.CleaningTime = nil
	case models.TableStatusCleaning:
		table.CleaningTime = &now
		table.EngagedTime = nil
	case models.TableStatusFree:
		table.EngagedTime = nil
		table.CleaningTime = nil
	}
	table.Status = next
	if err := lc.DB.Save(&table).Error; err != nil {
		return nil, nil, err
	}

	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, next)
	lc.broadcastTables()

	if next != models.TableStatusFree {
		return &table, nil, nil
	}

	waiting, err := lc.Engine.Waiting()
	if err != nil {
		return &table, nil, err
	}
	candidate, ok := matching.CandidateEntry(waiting, table)
	if !ok {
		return &table, nil, nil
	}

	if lc.AutoAssign {
		seated, err := lc.Seat(candidate.ID, table.ID)
		if err != nil {
			return &table, nil, err
		}
		// ambil ulang meja: Seat baru saja mengubahnya menjadi engaged
		if err := lc.DB.First(&table, tableID).Error; err != nil {
			return &table, seated, err
		}
		return &table, seated, nil
	}

	hub.BroadcastSeatProposal(table, candidate)
	return &table, &candidate, nil
}

// CandidateForTable -> usulan entry untuk satu meja; nil tanpa error jika
// tidak ada yang cocok (bukan kondisi gagal)
func (lc *Controller) CandidateForTable(tableID uint) (*models.CheckIn, error) {
	var table models.Table
	if err := lc.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, queue.ErrNotFound
		}
		return nil, err
	}

	waiting, err := lc.Engine.Waiting()
	if err != nil {
		return nil, err
	}
	candidate, ok := matching.CandidateEntry(waiting, table)
	if !ok {
		return nil, nil
	}
	return &candidate, nil
}

// TablesFor -> daftar meja free yang muat untuk rombongan, tightest fit dulu
func (lc *Controller) TablesFor(partySize int) ([]models.Table, error) {
	var tables []models.Table
	if err := lc.DB.Find(&tables).Error; err != nil {
		return nil, err
	}
	return matching.CandidateTables(tables, partySize), nil
}

func (lc *Controller) broadcastWaitlist() {
	entries, err := lc.Engine.Waiting()
	if err != nil {
		utils.ErrorLogger.Printf("Error fetching waiting list for broadcast: %v", err)
		return
	}
	hub.BroadcastWaitlistUpdate(entries)
}

func (lc *Controller) broadcastTables() {
	var tables []models.Table
	if err := lc.DB.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching tables for broadcast: %v", err)
		return
	}
	hub.BroadcastTableUpdate(tables)
}
