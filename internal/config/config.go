package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"drapecost/internal/calc"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env         string `yaml:"env" env:"APP_ENV" env-default:"prod"`
	HTTPServer  `yaml:"http_server"`
	DB          DB       `yaml:"db"`
	AdminLogin  string   `yaml:"admin_login" env:"ADMIN_LOGIN" env-required:"true"`
	AdminPass   string   `yaml:"admin_pass" env:"ADMIN_PASS" env-required:"true"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	Defaults    Defaults `yaml:"defaults"`
	Log         Log      `yaml:"log"`
	FrontendDir string   `yaml:"frontend_dir" env:"FRONTEND_DIR"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	User            string        `yaml:"user" env:"DB_USER" env-required:"true"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name            string        `yaml:"name" env:"DB_NAME" env-required:"true"`
	ParseTime       bool          `yaml:"parse_time" env-default:"true"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
}

// Defaults are used when the business settings row has not been saved yet.
type Defaults struct {
	LaborRate  float64         `yaml:"labor_rate" env-default:"0"`
	Unit       calc.Unit       `yaml:"unit" env-default:"cm"`
	PriceBasis calc.PriceBasis `yaml:"price_basis" env-default:"metric"`
	Currency   string          `yaml:"currency" env-default:"USD"`
}

type Log struct {
	ErrorFile string `yaml:"error_file" env:"LOG_ERROR_FILE" env-default:"errors.log"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
