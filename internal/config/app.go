package config

import "time"

const defaultMetricsPort = 8080

type AppConfig struct {
	TimezoneName string `yaml:"timezone"`
	Port         int    `yaml:"metrics-port"`

	location *time.Location
}

func (s *AppConfig) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}
	return s.location
}

func (s *AppConfig) MetricsPort() int {
	return s.Port
}
