// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	Policy    PolicyConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Generator GeneratorConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	RefreshCron    string
}

type AppConfig struct {
	DataDir      string
	OutputDir    string
	AnalysisDate string
	LogLevel     string
	LogFile      string
}

// PolicyConfig carries the revenue-management policy constants. Every value
// a revenue manager would tune lives here rather than in the analytics code.
type PolicyConfig struct {
	TargetOccupancyPct     float64
	OverperformThreshold   float64
	AtRiskThreshold        float64
	CompetitorCheapBand    float64
	CompetitorPremiumBand  float64
	LowOccupancyPct        float64
	SelloutOccupancyPct    float64
	NearWindowDays         int
	MidWindowDays          int
	FarWindowDays          int
	AnchorDaysOut          []int
	DefaultCompletionRatio float64
	DefaultFinalOccupancy  float64
	DefaultPaceTargetPct   float64
	FareEstimateFactor     float64
	OccupantsPerCabin      float64
	OverperformUpliftPct   float64
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

type GeneratorConfig struct {
	Seed int64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("SERVER_REFRESH_CRON", "")
		viper.SetDefault("APP_DATA_DIR", "./data")
		viper.SetDefault("APP_OUTPUT_DIR", "./data/output")
		viper.SetDefault("ANALYSIS_DATE", "")
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FILE", "")
		viper.SetDefault("POLICY_TARGET_OCCUPANCY_PCT", 90.0)
		viper.SetDefault("POLICY_OVERPERFORM_THRESHOLD", 5.0)
		viper.SetDefault("POLICY_AT_RISK_THRESHOLD", -5.0)
		viper.SetDefault("POLICY_COMPETITOR_CHEAP_BAND", 0.95)
		viper.SetDefault("POLICY_COMPETITOR_PREMIUM_BAND", 1.05)
		viper.SetDefault("POLICY_LOW_OCCUPANCY_PCT", 50.0)
		viper.SetDefault("POLICY_SELLOUT_OCCUPANCY_PCT", 95.0)
		viper.SetDefault("POLICY_NEAR_WINDOW_DAYS", 60)
		viper.SetDefault("POLICY_MID_WINDOW_DAYS", 90)
		viper.SetDefault("POLICY_FAR_WINDOW_DAYS", 120)
		viper.SetDefault("POLICY_ANCHOR_DAYS_OUT", "180,120,90,60,30")
		viper.SetDefault("POLICY_DEFAULT_COMPLETION_RATIO", 1.2)
		viper.SetDefault("POLICY_DEFAULT_FINAL_OCCUPANCY_PCT", 75.0)
		viper.SetDefault("POLICY_DEFAULT_PACE_TARGET_PCT", 50.0)
		viper.SetDefault("POLICY_FARE_ESTIMATE_FACTOR", 0.95)
		viper.SetDefault("POLICY_OCCUPANTS_PER_CABIN", 2.0)
		viper.SetDefault("POLICY_OVERPERFORM_UPLIFT_PCT", 0.05)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "")
		viper.SetDefault("STORAGE_REGION", "")
		viper.SetDefault("STORAGE_PREFIX", "snapshots/")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("GENERATOR_SEED", 42)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure data directories exist
		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_OUTPUT_DIR"))

		anchors, err := parseIntList(viper.GetString("POLICY_ANCHOR_DAYS_OUT"))
		if err != nil {
			log.Fatalf("Invalid POLICY_ANCHOR_DAYS_OUT: %v", err)
		}

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				RefreshCron:    viper.GetString("SERVER_REFRESH_CRON"),
			},
			App: AppConfig{
				DataDir:      viper.GetString("APP_DATA_DIR"),
				OutputDir:    viper.GetString("APP_OUTPUT_DIR"),
				AnalysisDate: viper.GetString("ANALYSIS_DATE"),
				LogLevel:     viper.GetString("LOG_LEVEL"),
				LogFile:      viper.GetString("LOG_FILE"),
			},
			Policy: PolicyConfig{
				TargetOccupancyPct:     viper.GetFloat64("POLICY_TARGET_OCCUPANCY_PCT"),
				OverperformThreshold:   viper.GetFloat64("POLICY_OVERPERFORM_THRESHOLD"),
				AtRiskThreshold:        viper.GetFloat64("POLICY_AT_RISK_THRESHOLD"),
				CompetitorCheapBand:    viper.GetFloat64("POLICY_COMPETITOR_CHEAP_BAND"),
				CompetitorPremiumBand:  viper.GetFloat64("POLICY_COMPETITOR_PREMIUM_BAND"),
				LowOccupancyPct:        viper.GetFloat64("POLICY_LOW_OCCUPANCY_PCT"),
				SelloutOccupancyPct:    viper.GetFloat64("POLICY_SELLOUT_OCCUPANCY_PCT"),
				NearWindowDays:         viper.GetInt("POLICY_NEAR_WINDOW_DAYS"),
				MidWindowDays:          viper.GetInt("POLICY_MID_WINDOW_DAYS"),
				FarWindowDays:          viper.GetInt("POLICY_FAR_WINDOW_DAYS"),
				AnchorDaysOut:          anchors,
				DefaultCompletionRatio: viper.GetFloat64("POLICY_DEFAULT_COMPLETION_RATIO"),
				DefaultFinalOccupancy:  viper.GetFloat64("POLICY_DEFAULT_FINAL_OCCUPANCY_PCT"),
				DefaultPaceTargetPct:   viper.GetFloat64("POLICY_DEFAULT_PACE_TARGET_PCT"),
				FareEstimateFactor:     viper.GetFloat64("POLICY_FARE_ESTIMATE_FACTOR"),
				OccupantsPerCabin:      viper.GetFloat64("POLICY_OCCUPANTS_PER_CABIN"),
				OverperformUpliftPct:   viper.GetFloat64("POLICY_OVERPERFORM_UPLIFT_PCT"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				Prefix:    viper.GetString("STORAGE_PREFIX"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Generator: GeneratorConfig{
				Seed: viper.GetInt64("GENERATOR_SEED"),
			},
		}
	})

	return instance
}

// ParseAnalysisDate parses the ISO analysis reference date. The reference
// date is always supplied explicitly; nothing in the analysis reads the
// wall clock.
func ParseAnalysisDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("analysis date is required (ISO format, e.g. 2025-09-01)")
	}

	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse analysis date %q: %w", value, err)
	}

	return t, nil
}

func parseIntList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse int list entry %q: %w", part, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty int list %q", raw)
	}

	return values, nil
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
