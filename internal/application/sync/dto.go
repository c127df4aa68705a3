package sync

import (
	"time"
)

// WarehouseAll requests a sync across every fulfillment origin
const WarehouseAll = "all"

// SyncRequest parameterizes a catalog sync run
type SyncRequest struct {
	// Resync deletes all previously synced rows before processing (full
	// replace); otherwise the run is an incremental upsert
	Resync bool `json:"resync"`
	// Warehouse narrows the supplier list to one fulfillment origin
	// ("US", "CN", "CA") or "all"
	Warehouse string `json:"warehouse"`
	// CategoryID narrows the supplier list to one supplier category
	CategoryID string `json:"category_id"`
	// Page is the first supplier page to fetch (1 when unset)
	Page int `json:"page"`
	// PageSize is the supplier page size (50 when unset)
	PageSize int `json:"page_size"`
}

// normalized fills request defaults
func (r SyncRequest) normalized() SyncRequest {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 50
	}
	if r.Warehouse == "" {
		r.Warehouse = WarehouseAll
	}
	return r
}

// SyncRunResult summarizes one sync run for the triggering operator.
// Per-item failures land in Errors; the run itself still succeeds.
type SyncRunResult struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Pages is the number of supplier pages fetched
	Pages int `json:"pages"`
	// Synced counts items successfully upserted (created + updated)
	Synced int `json:"synced"`
	// Created counts newly inserted products
	Created int `json:"created"`
	// Updated counts upserts onto existing rows
	Updated int `json:"updated"`
	// Hidden counts products auto-hidden for non-viable margins
	Hidden int `json:"hidden"`
	// Skipped counts items passed over for missing data
	Skipped int `json:"skipped"`
	// Deleted counts rows removed by a resync full replace
	Deleted int64 `json:"deleted"`
	// APICalls is the number of supplier calls consumed
	APICalls int `json:"api_calls"`
	// BudgetExhausted is set when the call ceiling halted the run early
	BudgetExhausted bool `json:"budget_exhausted"`

	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// addError records a per-item failure without aborting the run
func (r *SyncRunResult) addError(itemID string, err error) {
	r.Errors = append(r.Errors, itemID+": "+err.Error())
}

// addWarning records a non-fatal observation
func (r *SyncRunResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Duration is the wall-clock length of the run
func (r *SyncRunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
