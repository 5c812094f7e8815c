package categorizer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"spendwise/internal/logging"
	"spendwise/internal/models"
)

// MerchantStore keeps merchant mappings in a YAML file. An empty path disables it.
type MerchantStore struct {
	File   string
	logger logging.Logger
}

// NewMerchantStore creates a store backed by file.
func NewMerchantStore(file string, logger logging.Logger) *MerchantStore {
	return &MerchantStore{File: file, logger: logger}
}

// LoadMerchantMappings loads the mappings. A missing file yields an empty map.
func (s *MerchantStore) LoadMerchantMappings() (map[string]string, error) {
	if s.File == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(s.File)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Merchant mappings file not found", logging.F(logging.FieldFile, s.File))
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error reading merchant mappings file: %w", err)
	}

	var cfg models.MerchantsConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Merchants) > 0 {
		s.logger.Debug("Loaded merchant mappings",
			logging.F(logging.FieldFile, s.File),
			logging.F(logging.FieldCount, len(cfg.Merchants)))
		return cfg.Merchants, nil
	}

	// Fallback: a bare merchant: category map without the top-level key
	var mappings map[string]string
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing merchant mappings: %w", err)
	}
	if mappings == nil {
		mappings = map[string]string{}
	}
	return mappings, nil
}

// SaveMerchantMappings writes the mappings, creating the parent directory if needed.
func (s *MerchantStore) SaveMerchantMappings(mappings map[string]string) error {
	if s.File == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.File), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(models.MerchantsConfig{Merchants: mappings})
	if err != nil {
		return fmt.Errorf("error marshaling merchant mappings: %w", err)
	}

	if err := os.WriteFile(s.File, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing merchant mappings: %w", err)
	}

	s.logger.Debug("Saved merchant mappings",
		logging.F(logging.FieldFile, s.File),
		logging.F(logging.FieldCount, len(mappings)))
	return nil
}
