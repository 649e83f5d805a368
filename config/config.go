package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"API_ADDRESS" env-default:"localhost:5000"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"5s"`
}

type UploadsConfig struct {
	Dir          string `yaml:"dir" env:"UPLOADS_DIR" env-default:"uploads"`
	MaxSizeBytes int64  `yaml:"max_size_bytes" env:"UPLOADS_MAX_SIZE" env-default:"52428800"`
}

// TeamMember is one entry of the static evaluator roster. The display name
// is what requests are assigned to.
type TeamMember struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Identity is the static email-to-role lookup that the external identity
// provider's accounts are checked against.
type Identity struct {
	Admins     []string          `yaml:"admins"`
	Requesters []string          `yaml:"requesters"`
	Evaluators map[string]string `yaml:"evaluators"`
}

type Config struct {
	LogLevel   string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"DEBUG"`
	DBAddress  string        `yaml:"db_address" env:"DB_ADDRESS" env-default:"postgres://localhost:5432/requests"`
	HTTPConfig HTTPConfig    `yaml:"api_server"`
	Uploads    UploadsConfig `yaml:"uploads"`
	Identity   Identity      `yaml:"identity"`
	Team       []TeamMember  `yaml:"team"`
}

func MustLoad(configPath string) Config {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}
	return cfg
}
