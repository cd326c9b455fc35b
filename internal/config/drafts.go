package config

import "time"

const (
	DraftsMemory    = "memory"
	DraftsMemcached = "memcached"

	defaultDraftTTLMinutes = 60
)

type DraftsConfig struct {
	BackendName string `yaml:"backend"`
	TTL         int64  `yaml:"ttl-minutes"`
}

func (s *DraftsConfig) Backend() string {
	return s.BackendName
}

func (s *DraftsConfig) Expiration() time.Duration {
	return time.Duration(s.TTL) * time.Minute
}

type MemcachedConfig struct {
	NodeHosts []string `yaml:"hosts"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}
