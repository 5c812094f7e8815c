package categorizer

import "maps"

// MockMerchantStore is an in-memory MerchantStoreInterface for tests.
type MockMerchantStore struct {
	Mappings  map[string]string
	LoadError error
	SaveError error
	Saves     int
}

// LoadMerchantMappings returns a copy of the mock mappings.
func (m *MockMerchantStore) LoadMerchantMappings() (map[string]string, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	out := make(map[string]string, len(m.Mappings))
	maps.Copy(out, m.Mappings)
	return out, nil
}

// SaveMerchantMappings records the saved mappings.
func (m *MockMerchantStore) SaveMerchantMappings(mappings map[string]string) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saves++
	m.Mappings = make(map[string]string, len(mappings))
	maps.Copy(m.Mappings, mappings)
	return nil
}
