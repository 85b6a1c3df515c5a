package config

import (
	"fmt"

	"github.com/kbukum/aopkit/logger"
)

// ProxyDefaults holds the default flags applied to new proxy configurations.
type ProxyDefaults struct {
	// Frozen forbids advisor/interface mutation after proxy creation and
	// enables the fixed-chain optimization for static targets.
	Frozen bool `yaml:"frozen" mapstructure:"frozen"`
	// ExposeProxy makes the proxy reference available to advice and target
	// code during a call.
	ExposeProxy bool `yaml:"expose_proxy" mapstructure:"expose_proxy"`
	// Optimize enables aggressive dispatch optimizations.
	Optimize bool `yaml:"optimize" mapstructure:"optimize"`
	// Opaque hides the Advised control interface from proxy callers.
	Opaque bool `yaml:"opaque" mapstructure:"opaque"`
	// ProxyTargetType exposes the concrete target type's full exported
	// method surface instead of declared interfaces only.
	ProxyTargetType bool `yaml:"proxy_target_type" mapstructure:"proxy_target_type"`
}

// Settings is the root aopkit configuration.
type Settings struct {
	Proxy   ProxyDefaults `yaml:"proxy" mapstructure:"proxy"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the configuration.
func (s *Settings) ApplyDefaults() {
	s.Logging.ApplyDefaults()
}

// Validate validates the configuration.
func (s *Settings) Validate() error {
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	return nil
}
