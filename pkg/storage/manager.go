package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Config selects and configures the disks.
type Config struct {
	Default   string
	LocalRoot string
	LocalURL  string
	S3        S3Config
}

// ConfigFromEnv reads STORAGE_* and S3_* settings.
func ConfigFromEnv() Config {
	return Config{
		Default:   config.StorageDefault(),
		LocalRoot: config.StorageLocalRoot(),
		LocalURL:  config.StorageURL(),
		S3: S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		},
	}
}

// Manager holds the configured disks.
type Manager struct {
	disks       map[string]Disk
	defaultName string
	local       *LocalDisk
}

// NewManager always boots the local disk and adds "s3" when a bucket is
// configured. An s3 default without a working bucket falls back to local.
func NewManager(ctx context.Context, c Config) (*Manager, error) {
	local, err := NewLocalDisk(c.LocalRoot, c.LocalURL)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		disks:       map[string]Disk{"local": local},
		defaultName: c.Default,
		local:       local,
	}

	if c.S3.Bucket != "" {
		d, err := NewS3Disk(ctx, c.S3)
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.disks["s3"] = d
		}
	}

	if _, ok := m.disks[m.defaultName]; !ok {
		if m.defaultName != "" && m.defaultName != "local" {
			logger.Warn("storage: default disk unavailable, using local", "disk", m.defaultName)
		}
		m.defaultName = "local"
	}
	return m, nil
}

// Use returns the named disk.
func (m *Manager) Use(name string) (Disk, error) {
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func (m *Manager) Default() Disk { return m.disks[m.defaultName] }

// DefaultName returns the name of the default disk.
func (m *Manager) DefaultName() string { return m.defaultName }

// Local returns the local disk, which the API serves under /storage/.
func (m *Manager) Local() *LocalDisk { return m.local }
