package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains controller configuration parameters.
type Config struct {
	LogLevel  int       `env:"LOG_LEVEL" envDefault:"0"`
	HTTP      HTTP      `envPrefix:"HTTP_"`
	State     State     `envPrefix:"STATE_"`
	Session   Session   `envPrefix:"SESSION_"`
	Actuator  Actuator  `envPrefix:"ACTUATOR_"`
	Provision Provision `envPrefix:"PROVISION_"`
	Factory   Factory   `envPrefix:"FACTORY_"`
}

// HTTP contains web control surface parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// State contains persistent state parameters.
type State struct {
	FilePath string `env:"FILE_PATH" envDefault:"/var/lib/strongbox/state.json"`
}

// Session contains web session parameters.
type Session struct {
	IdleTTL  time.Duration `env:"IDLE_TTL" envDefault:"10m"`
	Capacity int           `env:"CAPACITY" envDefault:"8"`
}

// Actuator contains door mechanism parameters. An empty GPIO path selects
// the no-op output, useful on development hosts without the hardware.
type Actuator struct {
	GPIOValuePath string `env:"GPIO_VALUE_PATH" envDefault:""`
}

// Provision contains provisioning parameters.
type Provision struct {
	RebootDelay   time.Duration `env:"REBOOT_DELAY" envDefault:"5s"`
	RebootCommand string        `env:"REBOOT_COMMAND" envDefault:"/sbin/reboot"`
}

// Factory contains factory-default credentials used to seed the state file
// on first boot. They are ignored once a state file exists.
type Factory struct {
	Username       string `env:"USERNAME" envDefault:"admin"`
	Password       string `env:"PASSWORD" envDefault:"strongbox"`
	UnlockPassword string `env:"UNLOCK_PASSWORD" envDefault:"123456"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
