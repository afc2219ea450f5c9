package extractor

import (
	"fmt"
	"sort"
	"sync"

	"docverify/internal/config"
	"docverify/internal/port"
)

// ProviderFactory builds a FieldExtractor from the extractor config.
type ProviderFactory func(cfg *config.ExtractorConfig) (port.FieldExtractor, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a FieldExtractor using the factory registered for cfg.Provider.
func New(cfg *config.ExtractorConfig) (port.FieldExtractor, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
