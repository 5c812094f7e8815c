package categorizer

// MerchantStoreInterface persists learned merchant -> category mappings.
// This allows for dependency injection and easier testing.
type MerchantStoreInterface interface {
	LoadMerchantMappings() (map[string]string, error)
	SaveMerchantMappings(mappings map[string]string) error
}
