package enums

import "fmt"

// TicketRouting controls whether order creation raises a prep ticket and
// where it goes. Auto picks the station from the ordered items.
type TicketRouting string

const (
	TicketRoutingAuto    TicketRouting = "auto"
	TicketRoutingKitchen TicketRouting = "kitchen"
	TicketRoutingBar     TicketRouting = "bar"
	TicketRoutingSkip    TicketRouting = "skip"
)

var validTicketRoutings = []TicketRouting{
	TicketRoutingAuto,
	TicketRoutingKitchen,
	TicketRoutingBar,
	TicketRoutingSkip,
}

// String implements fmt.Stringer.
func (t TicketRouting) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketRouting.
func (t TicketRouting) IsValid() bool {
	for _, candidate := range validTicketRoutings {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketRouting converts raw input into a TicketRouting.
func ParseTicketRouting(value string) (TicketRouting, error) {
	for _, candidate := range validTicketRoutings {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket routing %q", value)
}
