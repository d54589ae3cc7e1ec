package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-waitlist/hub"
	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/utils"
	"gorm.io/gorm"
)

// Engine menjaga invariant posisi antrian: himpunan queue_position milik
// entry berstatus waiting selalu persis {1..N}, tanpa duplikat dan tanpa gap,
// terurut naik mengikuti check_in_time untuk posisi yang sama.
//
// Satu mutex menyerialkan seluruh mutasi waiting set. Renumbering butuh
// pandangan global yang konsisten, jadi lock per-entry tidak cukup. Setiap
// mutasi berjalan dalam satu transaksi gorm dan diakhiri renumbering, sehingga
// invariant pulih apa pun bentuk mutasinya.
type Engine struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Waiting -> snapshot otoritatif waiting list, terurut posisi
func (e *Engine) Waiting() ([]models.CheckIn, error) {
	var entries []models.CheckIn
	err := e.db.Where("status = ?", models.CheckInStatusWaiting).
		Order("queue_position ASC, check_in_time ASC").
		Find(&entries).Error
	return entries, err
}

// Enqueue menempatkan entry baru di ekor antrian: posisi = max + 1.
// Contact number yang masih aktif (status waiting) ditolak ErrDuplicateContact.
func (e *Engine) Enqueue(entry *models.CheckIn) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CheckIn{}).
			Where("status = ? AND contact_number = ?", models.CheckInStatusWaiting, entry.ContactNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateContact
		}

		var maxPos int
		if err := tx.Model(&models.CheckIn{}).
			Where("status = ?", models.CheckInStatusWaiting).
			Select("COALESCE(MAX(queue_position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}

		entry.Status = models.CheckInStatusWaiting
		entry.QueuePosition = maxPos + 1
		if entry.CheckInTime.IsZero() {
			entry.CheckInTime = time.Now()
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Check-in enqueued (ID=%d, position=%d)", entry.ID, entry.QueuePosition)
	hub.Notify(hub.CollectionCheckIns)
	return nil
}

// MoveTo memindahkan entry ke posisi target (di-clamp ke [1, N]) lalu
// merenumber. Pemindahan manual bersifat absolut: prioritas senior tidak
// pernah mengoreksi ulang urutan hasil MoveTo.
func (e *Engine) MoveTo(entryID uint, target int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var entry models.CheckIn
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if entry.Status != models.CheckInStatusWaiting {
			return ErrInvalidTransition
		}

		var rest []models.CheckIn
		if err := tx.Where("status = ? AND id <> ?", models.CheckInStatusWaiting, entryID).
			Order("queue_position ASC, check_in_time ASC").
			Find(&rest).Error; err != nil {
			return err
		}

		if target < 1 {
			target = 1
		}
		if target > len(rest)+1 {
			target = len(rest) + 1
		}

		ordered := make([]models.CheckIn, 0, len(rest)+1)
		ordered = append(ordered, rest[:target-1]...)
		ordered = append(ordered, entry)
		ordered = append(ordered, rest[target-1:]...)

		return applyPositions(tx, ordered)
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Check-in %d moved to position %d", entryID, target)
	hub.Notify(hub.CollectionCheckIns)
	return nil
}

// Remove menghapus record dari store dan merenumber sisanya. Delete memang
// merangkap "keluar permanen dari pembukuan antrian"; transisi status
// (seated/cancelled) merenumber lewat jalur lifecycle, bukan lewat sini.
func (e *Engine) Remove(entryID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.CheckIn{}, entryID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return RenumberTx(tx)
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Check-in %d removed from waiting list", entryID)
	hub.Notify(hub.CollectionCheckIns)
	return nil
}

// Renumber menormalkan seluruh posisi tanpa mutasi lain. Idempoten: dua kali
// berturut-turut menghasilkan keadaan yang sama dengan sekali.
func (e *Engine) Renumber() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.db.Transaction(RenumberTx); err != nil {
		return err
	}
	hub.Notify(hub.CollectionCheckIns)
	return nil
}

// Exclusive menjalankan fn sebagai satu transaksi sambil memegang lock waiting
// set. Dipakai lifecycle untuk commit gabungan: Seat menulis entry, meja, dan
// renumbering sebagai satu unit atomik (commit semua atau tidak sama sekali).
func (e *Engine) Exclusive(fn func(tx *gorm.DB) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.db.Transaction(fn); err != nil {
		return err
	}
	hub.Notify(hub.CollectionCheckIns)
	return nil
}

// RenumberTx mengurutkan waiting set by (queue_position, check_in_time) lalu
// menulis ulang posisi 1..N di dalam transaksi yang sedang berjalan.
func RenumberTx(tx *gorm.DB) error {
	var entries []models.CheckIn
	if err := tx.Where("status = ?", models.CheckInStatusWaiting).
		Order("queue_position ASC, check_in_time ASC").
		Find(&entries).Error; err != nil {
		return err
	}
	return applyPositions(tx, entries)
}

// applyPositions menulis posisi 1..N mengikuti urutan slice. Klausa status
// pada update adalah guard optimistik: baris yang hilang atau sudah keluar
// dari waiting sejak snapshot dibaca membatalkan seluruh transaksi dengan
// ErrConcurrentModification, supaya caller bisa mengulang operasinya.
func applyPositions(tx *gorm.DB, entries []models.CheckIn) error {
	for i := range entries {
		pos := i + 1
		if entries[i].QueuePosition == pos {
			continue
		}
		res := tx.Model(&models.CheckIn{}).
			Where("id = ? AND status = ?", entries[i].ID, models.CheckInStatusWaiting).
			Update("queue_position", pos)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentModification
		}
		entries[i].QueuePosition = pos
	}
	return nil
}
