package queue

import (
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupEngineDB -> SQLite in-memory per test, satu koneksi supaya transaksi
// terserialisasi seperti di MySQL
func setupEngineDB(t *testing.T) (*gorm.DB, *Engine) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.CheckIn{}))
	return db, NewEngine(db)
}

func enqueueParty(t *testing.T, e *Engine, contact string, size int, hasSeniors bool, checkInTime time.Time) *models.CheckIn {
	entry := &models.CheckIn{
		PartySize:     size,
		ContactNumber: contact,
		HasSeniors:    hasSeniors,
		CheckInTime:   checkInTime,
	}
	require.NoError(t, e.Enqueue(entry))
	return entry
}

// assertDense -> posisi waiting harus persis {1..N} sesuai urutan snapshot
func assertDense(t *testing.T, e *Engine) []models.CheckIn {
	entries, err := e.Waiting()
	require.NoError(t, err)
	for i := range entries {
		assert.Equal(t, i+1, entries[i].QueuePosition,
			"entry %d (ID=%d) has position %d", i, entries[i].ID, entries[i].QueuePosition)
	}
	return entries
}

func TestEnqueueAssignsSequentialPositions(t *testing.T) {
	_, engine := setupEngineDB(t)

	base := time.Now()
	alice := enqueueParty(t, engine, "111", 2, false, base)
	bob := enqueueParty(t, engine, "222", 4, false, base.Add(time.Minute))

	assert.Equal(t, 1, alice.QueuePosition)
	assert.Equal(t, 2, bob.QueuePosition)
	assertDense(t, engine)
}

func TestEnqueueRejectsDuplicateActiveContact(t *testing.T) {
	db, engine := setupEngineDB(t)

	alice := enqueueParty(t, engine, "111", 2, false, time.Now())

	dup := &models.CheckIn{PartySize: 3, ContactNumber: "111", CheckInTime: time.Now()}
	err := engine.Enqueue(dup)
	assert.ErrorIs(t, err, ErrDuplicateContact)

	// entry lama tidak tersentuh
	var count int64
	db.Model(&models.CheckIn{}).Count(&count)
	assert.EqualValues(t, 1, count)

	var reloaded models.CheckIn
	require.NoError(t, db.First(&reloaded, alice.ID).Error)
	assert.Equal(t, 1, reloaded.QueuePosition)
	assert.Equal(t, models.CheckInStatusWaiting, reloaded.Status)
}

func TestEnqueueAllowsContactAfterTerminalStatus(t *testing.T) {
	db, engine := setupEngineDB(t)

	old := enqueueParty(t, engine, "111", 2, false, time.Now())
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", old.ID).
		Updates(map[string]interface{}{"status": models.CheckInStatusCancelled, "queue_position": 0}).Error)

	again := &models.CheckIn{PartySize: 2, ContactNumber: "111", CheckInTime: time.Now()}
	require.NoError(t, engine.Enqueue(again))
	assert.Equal(t, 1, again.QueuePosition)
}

func TestMoveToIsAbsoluteAndOverridesSeniority(t *testing.T) {
	_, engine := setupEngineDB(t)

	base := time.Now()
	p1 := enqueueParty(t, engine, "101", 2, false, base)
	p2 := enqueueParty(t, engine, "102", 2, true, base.Add(time.Minute))
	p3 := enqueueParty(t, engine, "103", 2, false, base.Add(2*time.Minute))

	require.NoError(t, engine.MoveTo(p3.ID, 1))

	entries := assertDense(t, engine)
	require.Len(t, entries, 3)
	assert.Equal(t, p3.ID, entries[0].ID)
	assert.Equal(t, p1.ID, entries[1].ID)
	assert.Equal(t, p2.ID, entries[2].ID)
}

func TestMoveToClampsTarget(t *testing.T) {
	_, engine := setupEngineDB(t)

	base := time.Now()
	p1 := enqueueParty(t, engine, "101", 2, false, base)
	p2 := enqueueParty(t, engine, "102", 2, false, base.Add(time.Minute))
	p3 := enqueueParty(t, engine, "103", 2, false, base.Add(2*time.Minute))

	// melebihi N -> ekor antrian
	require.NoError(t, engine.MoveTo(p1.ID, 99))
	entries := assertDense(t, engine)
	assert.Equal(t, p1.ID, entries[2].ID)

	// di bawah 1 -> kepala antrian
	require.NoError(t, engine.MoveTo(p3.ID, -5))
	entries = assertDense(t, engine)
	assert.Equal(t, p3.ID, entries[0].ID)
	assert.Equal(t, p2.ID, entries[1].ID)
	assert.Equal(t, p1.ID, entries[2].ID)
}

func TestMoveToAdjacentSwapAsTwoCalls(t *testing.T) {
	_, engine := setupEngineDB(t)

	base := time.Now()
	p1 := enqueueParty(t, engine, "101", 2, false, base)
	p2 := enqueueParty(t, engine, "102", 2, false, base.Add(time.Minute))

	// "move up"/"move down" UI memanggil dua MoveTo independen
	require.NoError(t, engine.MoveTo(p2.ID, 1))
	require.NoError(t, engine.MoveTo(p1.ID, 2))

	entries := assertDense(t, engine)
	assert.Equal(t, p2.ID, entries[0].ID)
	assert.Equal(t, p1.ID, entries[1].ID)
}

func TestMoveToRejectsNonWaiting(t *testing.T) {
	db, engine := setupEngineDB(t)

	entry := enqueueParty(t, engine, "101", 2, false, time.Now())
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", entry.ID).
		Update("status", models.CheckInStatusSeated).Error)

	assert.ErrorIs(t, engine.MoveTo(entry.ID, 1), ErrInvalidTransition)
	assert.ErrorIs(t, engine.MoveTo(9999, 1), ErrNotFound)
}

func TestRemoveRenumbersRemainder(t *testing.T) {
	_, engine := setupEngineDB(t)

	base := time.Now()
	p1 := enqueueParty(t, engine, "101", 2, false, base)
	p2 := enqueueParty(t, engine, "102", 2, false, base.Add(time.Minute))
	p3 := enqueueParty(t, engine, "103", 2, false, base.Add(2*time.Minute))

	require.NoError(t, engine.Remove(p2.ID))

	entries := assertDense(t, engine)
	require.Len(t, entries, 2)
	assert.Equal(t, p1.ID, entries[0].ID)
	assert.Equal(t, p3.ID, entries[1].ID)

	assert.ErrorIs(t, engine.Remove(p2.ID), ErrNotFound)
}

func TestRenumberClosesGapsAndIsIdempotent(t *testing.T) {
	db, engine := setupEngineDB(t)

	base := time.Now()
	p1 := enqueueParty(t, engine, "101", 2, false, base)
	p2 := enqueueParty(t, engine, "102", 2, false, base.Add(time.Minute))
	p3 := enqueueParty(t, engine, "103", 2, false, base.Add(2*time.Minute))

	// bikin gap buatan seperti sisa operasi yang gagal di tengah
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", p1.ID).Update("queue_position", 4).Error)
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", p2.ID).Update("queue_position", 7).Error)
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", p3.ID).Update("queue_position", 2).Error)

	require.NoError(t, engine.Renumber())
	first := assertDense(t, engine)
	require.Len(t, first, 3)
	assert.Equal(t, p3.ID, first[0].ID)
	assert.Equal(t, p1.ID, first[1].ID)
	assert.Equal(t, p2.ID, first[2].ID)

	// idempoten: panggilan kedua tidak mengubah apa pun
	require.NoError(t, engine.Renumber())
	second := assertDense(t, engine)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].QueuePosition, second[i].QueuePosition)
	}
}

func TestRenumberBreaksPositionTieByCheckInTime(t *testing.T) {
	db, engine := setupEngineDB(t)

	base := time.Now()
	later := enqueueParty(t, engine, "101", 2, false, base.Add(time.Hour))
	earlier := enqueueParty(t, engine, "102", 2, false, base)

	// posisi sama secara paksa; check_in_time yang menentukan
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", later.ID).Update("queue_position", 1).Error)
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", earlier.ID).Update("queue_position", 1).Error)

	require.NoError(t, engine.Renumber())
	entries := assertDense(t, engine)
	require.Len(t, entries, 2)
	assert.Equal(t, earlier.ID, entries[0].ID)
	assert.Equal(t, later.ID, entries[1].ID)
}

func TestStaleSnapshotRejectedWithConcurrentModification(t *testing.T) {
	db, engine := setupEngineDB(t)

	base := time.Now()
	p1 := enqueueParty(t, engine, "101", 2, false, base)
	p2 := enqueueParty(t, engine, "102", 2, false, base.Add(time.Minute))
	p3 := enqueueParty(t, engine, "103", 2, false, base.Add(2*time.Minute))

	// snapshot reorder yang direncanakan: p2, p3, p1
	stale := []models.CheckIn{*p2, *p3, *p1}

	// di belakang snapshot, p1 keluar dari waiting
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", p1.ID).
		Update("status", models.CheckInStatusCancelled).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return applyPositions(tx, stale)
	})
	assert.ErrorIs(t, err, ErrConcurrentModification)

	// rollback total: posisi p2 tidak berubah walau update-nya sempat jalan
	var reloaded models.CheckIn
	require.NoError(t, db.First(&reloaded, p2.ID).Error)
	assert.Equal(t, 2, reloaded.QueuePosition)

	// operasi ulang lewat jalur normal memulihkan invariant
	require.NoError(t, engine.Renumber())
	entries := assertDense(t, engine)
	require.Len(t, entries, 2)
}

func TestInvariantAfterMixedOperations(t *testing.T) {
	db, engine := setupEngineDB(t)

	base := time.Now()
	ids := make([]uint, 0, 6)
	for i := 0; i < 6; i++ {
		entry := enqueueParty(t, engine, string(rune('a'+i))+"00", 2+i%3, i%2 == 0, base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, entry.ID)
	}

	require.NoError(t, engine.MoveTo(ids[4], 2))
	require.NoError(t, engine.Remove(ids[0]))
	require.NoError(t, engine.MoveTo(ids[5], 1))
	require.NoError(t, db.Model(&models.CheckIn{}).Where("id = ?", ids[2]).
		Updates(map[string]interface{}{"status": models.CheckInStatusSeated, "queue_position": 0}).Error)
	require.NoError(t, engine.Renumber())

	entries := assertDense(t, engine)
	assert.Len(t, entries, 4)
}

// Dua MoveTo konkuren plus enqueue/remove: semua terserialisasi di mutex
// engine; kalau ada yang kena ErrConcurrentModification, caller mengulang.
func TestConcurrentMutationsKeepInvariant(t *testing.T) {
	_, engine := setupEngineDB(t)

	base := time.Now()
	ids := make([]uint, 0, 8)
	for i := 0; i < 8; i++ {
		entry := enqueueParty(t, engine, "55"+string(rune('0'+i)), 2, false, base.Add(time.Duration(i)*time.Second))
		ids = append(ids, entry.ID)
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 10; i++ {
				id := ids[rng.Intn(len(ids))]
				target := rng.Intn(10) - 1
				for {
					err := engine.MoveTo(id, target)
					if err == ErrConcurrentModification {
						continue // retriable, ulangi operasi yang sama
					}
					// entry mungkin sudah di-remove oleh goroutine lain
					break
				}
			}
		}(int64(g))
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		engine.Remove(ids[3])
		extra := &models.CheckIn{PartySize: 2, ContactNumber: "999", CheckInTime: time.Now()}
		engine.Enqueue(extra)
	}()
	wg.Wait()

	assertDense(t, engine)
}
