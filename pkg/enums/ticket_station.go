package enums

import "fmt"

// TicketStation identifies which prep station a ticket is routed to.
type TicketStation string

const (
	TicketStationKitchen TicketStation = "kitchen"
	TicketStationBar     TicketStation = "bar"
)

var validTicketStations = []TicketStation{
	TicketStationKitchen,
	TicketStationBar,
}

// String implements fmt.Stringer.
func (t TicketStation) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketStation.
func (t TicketStation) IsValid() bool {
	for _, candidate := range validTicketStations {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketStation converts raw input into a TicketStation.
func ParseTicketStation(value string) (TicketStation, error) {
	for _, candidate := range validTicketStations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket station %q", value)
}
