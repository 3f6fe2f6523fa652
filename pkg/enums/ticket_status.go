package enums

import "fmt"

// TicketStatus tracks a kitchen ticket on the display system.
type TicketStatus string

const (
	TicketStatusNew       TicketStatus = "new"
	TicketStatusPreparing TicketStatus = "preparing"
	TicketStatusReady     TicketStatus = "ready"
	TicketStatusServed    TicketStatus = "served"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusPreparing,
	TicketStatusReady,
	TicketStatusServed,
}

var ticketStatusRanks = map[TicketStatus]int{
	TicketStatusNew:       0,
	TicketStatusPreparing: 1,
	TicketStatusReady:     2,
	TicketStatusServed:    3,
}

// String implements fmt.Stringer.
func (t TicketStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketStatus.
func (t TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// Rank returns the ticket's position in the prep sequence, or -1 for unknown
// values.
func (t TicketStatus) Rank() int {
	if rank, ok := ticketStatusRanks[t]; ok {
		return rank
	}
	return -1
}

// OrderStatus maps the ticket state onto the owning order's status.
func (t TicketStatus) OrderStatus() OrderStatus {
	switch t {
	case TicketStatusPreparing:
		return OrderStatusPreparing
	case TicketStatusReady:
		return OrderStatusReady
	case TicketStatusServed:
		return OrderStatusServed
	default:
		return OrderStatusOpen
	}
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}
