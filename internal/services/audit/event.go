// Package audit defines the click audit event and its fan-out plumbing.
package audit

// Event records one accepted increment: which day, which direction, when,
// and from which client address.
type Event struct {
	Timestamp int64  `json:"ts"`
	Date      string `json:"date"`
	Action    string `json:"action"`
	IPAddress string `json:"ip_address"`
}
