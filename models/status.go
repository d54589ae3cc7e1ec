package models

// Status values for check-ins and tables
const (
	CheckInStatusWaiting   = "waiting"
	CheckInStatusSeated    = "seated"
	CheckInStatusCancelled = "cancelled"

	TableStatusFree     = "free"
	TableStatusEngaged  = "engaged"
	TableStatusCleaning = "cleaning"
)

// target status -> status yang boleh menjadi asalnya.
// seated dan cancelled adalah terminal: tidak pernah muncul sebagai asal.
var checkInTransitions = map[string][]string{
	CheckInStatusSeated:    {CheckInStatusWaiting},
	CheckInStatusCancelled: {CheckInStatusWaiting},
}

// Siklus meja: free -> engaged -> cleaning -> free.
// engaged -> free langsung diizinkan (manual override, skip cleaning).
var tableTransitions = map[string][]string{
	TableStatusEngaged:  {TableStatusFree},
	TableStatusCleaning: {TableStatusEngaged},
	TableStatusFree:     {TableStatusEngaged, TableStatusCleaning},
}

func ValidCheckInTransition(from, to string) bool {
	allowed, ok := checkInTransitions[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

func ValidTableTransition(from, to string) bool {
	allowed, ok := tableTransitions[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}
