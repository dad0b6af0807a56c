package enums

import "fmt"

// CartEventType names the change carried on a user's realtime cart channel.
type CartEventType string

const (
	CartEventInsert CartEventType = "insert"
	CartEventUpdate CartEventType = "update"
	CartEventDelete CartEventType = "delete"
	CartEventClear  CartEventType = "clear"
)

var validCartEventTypes = []CartEventType{
	CartEventInsert,
	CartEventUpdate,
	CartEventDelete,
	CartEventClear,
}

// String implements fmt.Stringer.
func (c CartEventType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartEventType.
func (c CartEventType) IsValid() bool {
	for _, candidate := range validCartEventTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartEventType converts raw input into a CartEventType.
func ParseCartEventType(value string) (CartEventType, error) {
	for _, candidate := range validCartEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart event type %q", value)
}
