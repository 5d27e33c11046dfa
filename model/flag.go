// model/flag.go
package model

import "time"

// CapabilityFlag is one toggleable feature. Non-empty target lists are
// authoritative for the matching identity and bypass percentage bucketing.
type CapabilityFlag struct {
	Key               string    `json:"key"`
	Description       string    `json:"description"`
	EnabledDefault    bool      `json:"enabled_default"`
	RolloutPercentage int       `json:"rollout_percentage"`
	TargetUserIDs     []string  `json:"target_user_ids,omitempty"`
	TargetTenantIDs   []string  `json:"target_tenant_ids,omitempty"`
	Version           int       `json:"version"`
	UpdatedAt         time.Time `json:"updated_at"`
	UpdatedBy         string    `json:"updated_by,omitempty"`
}

// Caller is the resolution context for a capability check. It is built per
// request and never persisted.
type Caller struct {
	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// FlagPatch carries partial updates to a stored flag. Nil fields are left
// untouched.
type FlagPatch struct {
	Description       *string   `json:"description,omitempty"`
	EnabledDefault    *bool     `json:"enabled_default,omitempty"`
	RolloutPercentage *int      `json:"rollout_percentage,omitempty"`
	TargetUserIDs     *[]string `json:"target_user_ids,omitempty"`
	TargetTenantIDs   *[]string `json:"target_tenant_ids,omitempty"`
}

// FlagState is a flag as reported by the admin surface. Stored is false when
// the flag is served from its built-in default. Resolved is populated when a
// preview caller was supplied with the request.
type FlagState struct {
	Flag     CapabilityFlag `json:"flag"`
	Stored   bool           `json:"stored"`
	Resolved *bool          `json:"resolved,omitempty"`
}

// BulkFlagPatch is one entry of a bulk update request.
type BulkFlagPatch struct {
	Key   string    `json:"key"`
	Patch FlagPatch `json:"patch"`
}

// BulkUpdateResult reports the outcome for one key of a bulk update.
type BulkUpdateResult struct {
	Key     string `json:"key"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}
