// Package matching berisi kebijakan pencocokan meja/antrian. Semua fungsi
// advisory: hanya mengusulkan pasangan, tidak pernah mengubah state. Commit
// seating dilakukan lifecycle, sehingga staff bisa override usulan tanpa
// menduplikasi logika prioritas.
package matching

import (
	"sort"

	"github.com/yeremiapane/restaurant-waitlist/models"
)

// CandidateTables -> meja free dengan kapasitas cukup, terurut kapasitas naik
// (tightest fit dulu, meminimalkan kursi terbuang). Slice kosong bukan error.
func CandidateTables(tables []models.Table, partySize int) []models.Table {
	candidates := make([]models.Table, 0)
	for _, table := range tables {
		if table.Status == models.TableStatusFree && table.Capacity >= partySize {
			candidates = append(candidates, table)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Capacity < candidates[j].Capacity
	})
	return candidates
}

// CandidateEntry -> entry waiting terbaik untuk sebuah meja, atau false jika
// tidak ada yang muat. Prioritas: rombongan dengan senior lebih dulu, lalu
// check-in time paling awal (setara posisi antrian terkecil).
func CandidateEntry(entries []models.CheckIn, table models.Table) (models.CheckIn, bool) {
	suitable := make([]models.CheckIn, 0)
	for _, entry := range entries {
		if entry.Status == models.CheckInStatusWaiting && entry.PartySize <= table.Capacity {
			suitable = append(suitable, entry)
		}
	}
	if len(suitable) == 0 {
		return models.CheckIn{}, false
	}

	sort.SliceStable(suitable, func(i, j int) bool {
		if suitable[i].HasSeniors != suitable[j].HasSeniors {
			return suitable[i].HasSeniors
		}
		if !suitable[i].CheckInTime.Equal(suitable[j].CheckInTime) {
			return suitable[i].CheckInTime.Before(suitable[j].CheckInTime)
		}
		return suitable[i].QueuePosition < suitable[j].QueuePosition
	})
	return suitable[0], true
}
