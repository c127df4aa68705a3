package sync

import (
	"strings"

	"github.com/dropship/backend/internal/domain/catalog"
)

// WarehouseSignal maps source markers to a fulfillment origin. Signals
// are evaluated in order; the first match wins.
type WarehouseSignal struct {
	Warehouse catalog.Warehouse
	// Codes match the whole source field after trimming, case-insensitive
	Codes []string
	// Markers match as substrings of the lowercased source field
	Markers []string
	// MaxDeliveryDays matches when the item's delivery estimate is
	// positive and at most this many days; 0 disables the threshold
	MaxDeliveryDays int
}

// DefaultWarehouseSignals covers the source markers the supplier feed
// has been seen to emit
func DefaultWarehouseSignals() []WarehouseSignal {
	return []WarehouseSignal{
		{
			Warehouse: catalog.WarehouseUS,
			Codes:     []string{"US", "USA"},
			Markers:   []string{"united states", "us warehouse", "ship from us"},
			// Estimates this short only happen on domestic stock
			MaxDeliveryDays: 7,
		},
		{
			Warehouse: catalog.WarehouseCA,
			Codes:     []string{"CA", "CAN"},
			Markers:   []string{"canada", "ca warehouse"},
		},
		{
			Warehouse: catalog.WarehouseCN,
			Codes:     []string{"CN", "CHN"},
			Markers:   []string{"china", "cn warehouse", "mainland"},
		},
	}
}

// WarehouseClassifier derives a fulfillment origin from the supplier's
// free-form source field. There is no authoritative field in the feed,
// so classification is best effort: an unmatched source defaults to CN
// and is reported as ambiguous so the run can flag it.
type WarehouseClassifier struct {
	signals []WarehouseSignal
}

// NewWarehouseClassifier creates a classifier with the given signal
// list, falling back to the defaults when empty
func NewWarehouseClassifier(signals []WarehouseSignal) *WarehouseClassifier {
	if len(signals) == 0 {
		signals = DefaultWarehouseSignals()
	}
	return &WarehouseClassifier{signals: signals}
}

// Classify maps a source field and delivery estimate to a warehouse.
// The second return is false when no signal matched and the default
// was used. deliveryDays is the feed's delivery upper bound, 0 when
// absent; explicit source markers take precedence over the threshold.
func (c *WarehouseClassifier) Classify(sourceFrom string, deliveryDays int) (catalog.Warehouse, bool) {
	source := strings.TrimSpace(sourceFrom)
	upper := strings.ToUpper(source)
	lower := strings.ToLower(source)

	for _, sig := range c.signals {
		for _, code := range sig.Codes {
			if source != "" && upper == code {
				return sig.Warehouse, true
			}
		}
		for _, marker := range sig.Markers {
			if source != "" && strings.Contains(lower, marker) {
				return sig.Warehouse, true
			}
		}
	}
	for _, sig := range c.signals {
		if sig.MaxDeliveryDays > 0 && deliveryDays > 0 && deliveryDays <= sig.MaxDeliveryDays {
			return sig.Warehouse, true
		}
	}
	return catalog.WarehouseCN, false
}
