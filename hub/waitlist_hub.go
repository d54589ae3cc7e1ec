package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-waitlist/models"
)

// Event types
const (
	EventWaitlistUpdate  = "waitlist_update"
	EventTableUpdate     = "table_update"
	EventSeatProposal    = "seat_proposal"
	EventDashboardUpdate = "dashboard_update"
)

// Collection names untuk signal internal
const (
	CollectionCheckIns = "check_ins"
	CollectionTables   = "tables"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// WaitlistHub menampung semua client dashboard (guest, staff, admin) dan
// subscriber internal. Setiap mutasi menyiarkan snapshot penuh, bukan delta:
// penerima wajib re-fetch daftar otoritatif.
type WaitlistHub struct {
	clients map[*websocket.Conn]string // conn -> role
	signals map[string][]chan struct{} // collection -> subscriber channels
	mutex   sync.Mutex
}

var waitlistHub = WaitlistHub{
	clients: make(map[*websocket.Conn]string),
	signals: make(map[string][]chan struct{}),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	waitlistHub.mutex.Lock()
	defer waitlistHub.mutex.Unlock()
	waitlistHub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	waitlistHub.mutex.Lock()
	defer waitlistHub.mutex.Unlock()
	delete(waitlistHub.clients, conn)
	conn.Close()
}

// Subscribe mengembalikan channel yang menerima sinyal "collection berubah".
// Buffer satu slot: sinyal yang menumpuk di-coalesce, penerima harus membaca
// ulang seluruh state setiap kali menerima sinyal.
func Subscribe(collection string) <-chan struct{} {
	waitlistHub.mutex.Lock()
	defer waitlistHub.mutex.Unlock()
	ch := make(chan struct{}, 1)
	waitlistHub.signals[collection] = append(waitlistHub.signals[collection], ch)
	return ch
}

// Notify -> sinyal internal bahwa sebuah collection berubah (at-least-once)
func Notify(collection string) {
	waitlistHub.mutex.Lock()
	defer waitlistHub.mutex.Unlock()
	for _, ch := range waitlistHub.signals[collection] {
		select {
		case ch <- struct{}{}:
		default:
			// subscriber belum membaca sinyal sebelumnya, coalesce
		}
	}
}

// BroadcastWaitlistUpdate -> menyiarkan seluruh waiting list terurut
func BroadcastWaitlistUpdate(entries []models.CheckIn) {
	broadcast(Message{
		Event: EventWaitlistUpdate,
		Data:  entries,
	})
	Notify(CollectionCheckIns)
}

// BroadcastTableUpdate -> menyiarkan seluruh daftar meja
func BroadcastTableUpdate(tables []models.Table) {
	broadcast(Message{
		Event: EventTableUpdate,
		Data:  tables,
	})
	Notify(CollectionTables)
}

// BroadcastSeatProposal -> usulan pasangan meja/antrian (advisory, belum commit)
func BroadcastSeatProposal(table models.Table, entry models.CheckIn) {
	broadcast(Message{
		Event: EventSeatProposal,
		Data: map[string]interface{}{
			"table":    table,
			"check_in": entry,
		},
	})
}

// BroadcastDashboardUpdate -> update statistik dashboard
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{
		Event: EventDashboardUpdate,
		Data:  data,
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast -> fungsi internal untuk mengirim pesan
func broadcast(msg Message) {
	waitlistHub.mutex.Lock()
	defer waitlistHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range waitlistHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
