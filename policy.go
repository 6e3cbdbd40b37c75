package logsink

import "strings"

// OverflowPolicy defines how a full queue treats a new record.
type OverflowPolicy int

const (
	// PolicyBlock waits up to the block timeout for space, then rejects the record.
	PolicyBlock OverflowPolicy = iota
	// PolicyDropOldest evicts the oldest queued record to make room.
	PolicyDropOldest
)

// String returns the configuration form of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case PolicyBlock:
		return "block"
	case PolicyDropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "block" or "drop-oldest".
func ParsePolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block":
		return PolicyBlock, nil
	case "drop-oldest", "drop_oldest", "dropoldest":
		return PolicyDropOldest, nil
	default:
		return PolicyBlock, newConfigurationError("logsink.ParsePolicy", errMsgUnknownPolicy+" "+s, nil)
	}
}
