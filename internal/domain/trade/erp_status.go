package trade

import "strings"

// ErpStatus is the locally owned fulfilment state of an order
type ErpStatus string

const (
	ErpStatusPending    ErpStatus = "pending"
	ErpStatusProcessing ErpStatus = "processing"
	ErpStatusShipped    ErpStatus = "shipped"
	ErpStatusDelivered  ErpStatus = "delivered"
	ErpStatusCancelled  ErpStatus = "cancelled"
)

// DefaultErpStatus is assigned when a remote status has no mapping
const DefaultErpStatus = ErpStatusPending

var erpStatusLookup = map[string]ErpStatus{
	"pending":             ErpStatusPending,
	"unfulfilled":         ErpStatusPending,
	"open":                ErpStatusPending,
	"on_hold":             ErpStatusPending,
	"scheduled":           ErpStatusPending,
	"processing":          ErpStatusProcessing,
	"in_progress":         ErpStatusProcessing,
	"partially_fulfilled": ErpStatusProcessing,
	"shipped":             ErpStatusShipped,
	"fulfilled":           ErpStatusShipped,
	"in_transit":          ErpStatusShipped,
	"delivered":           ErpStatusDelivered,
	"cancelled":           ErpStatusCancelled,
	"canceled":            ErpStatusCancelled,
}

// IsValid checks if the status is one of the known values
func (s ErpStatus) IsValid() bool {
	switch s {
	case ErpStatusPending, ErpStatusProcessing, ErpStatusShipped,
		ErpStatusDelivered, ErpStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s ErpStatus) IsTerminal() bool {
	return s == ErpStatusDelivered || s == ErpStatusCancelled
}

// String returns the string representation
func (s ErpStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to target.
// pending -> processing -> shipped -> delivered, and cancelled from any
// non-terminal state.
func (s ErpStatus) CanTransitionTo(target ErpStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == ErpStatusCancelled {
		return true
	}
	switch s {
	case ErpStatusPending:
		return target == ErpStatusProcessing
	case ErpStatusProcessing:
		return target == ErpStatusShipped
	case ErpStatusShipped:
		return target == ErpStatusDelivered
	}
	return false
}

// MapErpStatus maps a free-text remote status onto the local enum.
// Unknown values map to DefaultErpStatus instead of failing.
func MapErpStatus(raw string) ErpStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if s, ok := erpStatusLookup[key]; ok {
		return s
	}
	return DefaultErpStatus
}
