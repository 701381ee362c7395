package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
)

type Manager struct {
	providers map[string]Provider
	logger    *logger.Logger
	mutex     sync.RWMutex
}

func NewManager(logger *logger.Logger) *Manager {
	return &Manager{
		providers: make(map[string]Provider),
		logger:    logger,
	}
}

func (m *Manager) AddProvider(config *types.ProviderConfig) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !config.Enabled {
		m.logger.Debug("provider_disabled").
			Str("name", config.Name).
			Send()
		return nil
	}

	var provider Provider
	var err error

	switch config.Type {
	case "snapshot":
		provider, err = NewSnapshotProvider(config, m.logger)
	case "awsbackup":
		provider, err = NewAWSBackupProvider(config, m.logger)
	case "velero":
		provider, err = NewVeleroProvider(config, m.logger)
	default:
		return fmt.Errorf("unsupported provider type: %s", config.Type)
	}

	if err != nil {
		return fmt.Errorf("failed to create provider %s: %w", config.Name, err)
	}

	m.providers[config.Name] = provider

	m.logger.Info("provider_added").
		Str("name", config.Name).
		Str("type", config.Type).
		Send()

	return nil
}

func (m *Manager) GetProvider(name string) (Provider, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	provider, exists := m.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}

	return provider, nil
}

func (m *Manager) ListProviders() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var names []string
	for name := range m.providers {
		names = append(names, name)
	}

	return names
}

func (m *Manager) GetProviderCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.providers)
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var errs []error

	for name, provider := range m.providers {
		m.logger.Debug("provider_health_check").
			Str("name", name).
			Send()

		if err := provider.IsHealthy(ctx); err != nil {
			m.logger.Error("provider_unhealthy").
				Str("name", name).
				Err(err).
				Send()
			errs = append(errs, fmt.Errorf("provider %s: %w", name, err))
		} else {
			m.logger.Info("provider_healthy").
				Str("name", name).
				Send()
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("health check failures: %v", errs)
	}

	return nil
}
