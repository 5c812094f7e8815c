package categorizer

import (
	"maps"
	"strings"
	"sync"

	"spendwise/internal/logging"
)

// DirectMapping serves merchant categories learned from earlier classifications.
// Keys are normalized merchant names.
type DirectMapping struct {
	mappings map[string]string
	store    MerchantStoreInterface
	logger   logging.Logger
	dirty    bool
	mu       sync.RWMutex
}

// NewDirectMapping loads the mappings from store. A failing store leaves the mapping empty.
func NewDirectMapping(store MerchantStoreInterface, logger logging.Logger) *DirectMapping {
	d := &DirectMapping{
		mappings: make(map[string]string),
		store:    store,
		logger:   logger,
	}

	loaded, err := store.LoadMerchantMappings()
	if err != nil {
		logger.WithError(err).Warn("Failed to load merchant mappings")
		return d
	}
	for k, v := range loaded {
		d.mappings[normalizeMerchant(k)] = v
	}
	logger.Debug("Loaded merchant mappings", logging.F(logging.FieldCount, len(d.mappings)))
	return d
}

// Lookup returns the learned category of a merchant.
func (d *DirectMapping) Lookup(merchant string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	category, ok := d.mappings[normalizeMerchant(merchant)]
	return category, ok
}

// Update adds or replaces a mapping.
func (d *DirectMapping) Update(merchant, category string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := normalizeMerchant(merchant)
	if d.mappings[key] == category {
		return
	}
	d.mappings[key] = category
	d.dirty = true
}

// Len returns the number of mappings.
func (d *DirectMapping) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.mappings)
}

// Save writes the mappings back to the store when they changed.
func (d *DirectMapping) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.dirty {
		return nil
	}
	if err := d.store.SaveMerchantMappings(maps.Clone(d.mappings)); err != nil {
		return err
	}
	d.dirty = false
	return nil
}

func normalizeMerchant(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
