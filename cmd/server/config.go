package main

import (
	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/zllovesuki/tlsconnector/profile"
)

type NetworkConfig struct {
	BindAddr string
	Port     int
	// HandshakeTimeout in seconds
	HandshakeTimeout int
}

type TLSConfig struct {
	Profile    string
	Cert       string
	Key        string
	ClientCA   string
	NextProtos []string
	// Hosts for the generated development certificate when no Cert is given
	Hosts []string
}

type MetricsConfig struct {
	Addr string
}

type ConfigBundle struct {
	Network NetworkConfig
	TLS     TLSConfig
	Metrics MetricsConfig
}

func (c *ConfigBundle) validate() error {
	var err error
	if c.Network.Port <= 0 || c.Network.Port > 65535 {
		err = multierr.Append(err, errors.Errorf("invalid port %d", c.Network.Port))
	}
	switch c.TLS.Profile {
	case profile.IntermediateName, profile.ModernName:
	default:
		err = multierr.Append(err, errors.Errorf("unknown server profile %q", c.TLS.Profile))
	}
	if (c.TLS.Cert == "") != (c.TLS.Key == "") {
		err = multierr.Append(err, errors.New("cert and key must be set together"))
	}
	if c.TLS.Cert == "" && len(c.TLS.Hosts) == 0 {
		err = multierr.Append(err, errors.New("either a certificate or hosts for a development certificate are required"))
	}
	return err
}

func getConfig(path string) (*ConfigBundle, error) {
	cfg := config.New("tlsconnector")
	cfg.AddDriver(yaml.Driver)

	err := cfg.LoadFiles(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading config file")
	}

	var bundle ConfigBundle
	if err := cfg.MapStruct("network", &bundle.Network); err != nil {
		return nil, errors.Wrap(err, "mapping network config")
	}
	if err := cfg.MapStruct("tls", &bundle.TLS); err != nil {
		return nil, errors.Wrap(err, "mapping tls config")
	}
	if err := cfg.MapStruct("metrics", &bundle.Metrics); err != nil {
		return nil, errors.Wrap(err, "mapping metrics config")
	}
	if bundle.TLS.Profile == "" {
		bundle.TLS.Profile = profile.IntermediateName
	}
	if bundle.Network.BindAddr == "" {
		bundle.Network.BindAddr = "127.0.0.1"
	}

	if err := bundle.validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return &bundle, nil
}
