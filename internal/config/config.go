package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/lienworks/lienos/internal/domain"
)

type Config struct {
	Server Server `yaml:"server"`
	Policy Policy `yaml:"policy"`
}

type Server struct {
	ListenAddr     string `yaml:"listenAddr"`
	Storage        string `yaml:"storage"` // postgres, memory
	PostgresDsn    string `yaml:"postgresDsn"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
	RedisDB        int    `yaml:"redisDB"`
	MemcachedAddr  string `yaml:"memcachedAddr"`
	ValuationTTLs  int    `yaml:"valuationCacheSeconds"`
	EnableRealtime bool   `yaml:"enableRealtime"`
}

// Policy exposes the valuation and alerting constants. These are business
// policy, not algorithm, and must be tunable without a rebuild.
type Policy struct {
	OilPricePerBarrel   float64 `yaml:"oilPricePerBarrel"`
	MonthlyYieldPerAcre float64 `yaml:"monthlyYieldPerAcre"`
	RecoveryFeeRate     float64 `yaml:"recoveryFeeRate"`
	AlertDaysBefore     []int   `yaml:"alertDaysBefore"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	config.applyDefaults()
	return config, nil
}

// Default returns a config usable without a file, backed by the ephemeral
// in-memory store.
func Default() Config {
	config := Config{
		Server: Server{Storage: "memory"},
	}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8000"
	}
	if c.Server.Storage == "" {
		c.Server.Storage = "postgres"
	}

	defaults := domain.DefaultValuationPolicy()
	if c.Policy.OilPricePerBarrel == 0 {
		c.Policy.OilPricePerBarrel = defaults.OilPricePerBarrel
	}
	if c.Policy.MonthlyYieldPerAcre == 0 {
		c.Policy.MonthlyYieldPerAcre = defaults.MonthlyYieldPerAcre
	}
	if c.Policy.RecoveryFeeRate == 0 {
		c.Policy.RecoveryFeeRate = defaults.RecoveryFeeRate
	}
	if len(c.Policy.AlertDaysBefore) == 0 {
		c.Policy.AlertDaysBefore = domain.DefaultAlertOffsets
	}
}

// ValuationPolicy converts the config section into the domain policy.
func (c Config) ValuationPolicy() domain.ValuationPolicy {
	return domain.ValuationPolicy{
		OilPricePerBarrel:   c.Policy.OilPricePerBarrel,
		MonthlyYieldPerAcre: c.Policy.MonthlyYieldPerAcre,
		RecoveryFeeRate:     c.Policy.RecoveryFeeRate,
	}
}
