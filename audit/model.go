// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// FlagChange is one audited flag mutation.
type FlagChange struct {
	Timestamp time.Time       `json:"timestamp"`
	ActorID   string          `json:"actor_id"`
	Action    string          `json:"action"`
	FlagKey   string          `json:"flag_key"`
	OldFlag   json.RawMessage `json:"old_flag,omitempty"`
	NewFlag   json.RawMessage `json:"new_flag,omitempty"`
}

// ChangeQuery filters the audit trail. Limit and Offset page through the
// result set; a zero Limit leaves the backend's default page size in place.
type ChangeQuery struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	ActorID string    `json:"actor_id,omitempty"`
	FlagKey string    `json:"flag_key,omitempty"`
	Limit   int       `json:"limit,omitempty"`
	Offset  int       `json:"offset,omitempty"`
}
