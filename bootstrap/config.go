package bootstrap

import (
	"github.com/kbukum/wirekit/config"
)

// Config constrains the application config type. Embedding
// config.ServiceConfig by value satisfies it through promoted methods; an
// embedding type may override ApplyDefaults and Validate as long as it calls
// the ServiceConfig versions first.
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
//	}
//
// The config is wired on the root context under ConfigKey, so components
// resolved there can declare it as a dependency.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
