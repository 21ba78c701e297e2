package config

import (
	"log"
	"sync"
)

// Manager holds the live configuration and supports atomic reloads. The
// upload pipeline reads transfer tunables through it so a config change
// takes effect without a restart.
type Manager struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewManager wraps an already loaded config. path is remembered for reloads.
func NewManager(cfg *Config, path string) *Manager {
	return &Manager{cfg: cfg, path: path}
}

// Get returns the current configuration snapshot.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// TransferTunables returns the current multipart threshold and part size.
func (m *Manager) TransferTunables() (threshold, partSize int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Upload.MultipartThreshold, m.cfg.Upload.PartSize
}

// Reload re-reads the config file. On any error the previous configuration
// stays in effect.
func (m *Manager) Reload() error {
	cfg, err := Load(m.path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	log.Printf("Configuration reloaded from %s", m.path)
	return nil
}
