package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sharkmet/HomeHUB/internal/classify"
	"github.com/sharkmet/HomeHUB/internal/zones"
)

// AppConfig is the full service configuration, sourced from environment
// variables plus an optional YAML file for zone membership and classifier
// bands.
type AppConfig struct {
	Port string

	// Outbound weather fetch.
	OpenWeatherAPIKey string
	WeatherCity       string
	WeatherCountry    string
	WeatherUnits      string
	WeatherCacheTTL   time.Duration
	RefreshInterval   time.Duration
	HTTPTimeout       time.Duration

	// Append log.
	DataLogPath   string
	DataLogBuffer int

	// Dashboard app persistence.
	TodoDBPath   string
	NotesDBPath  string
	TimersDBPath string
	MusicDBPath  string

	// Ingestion policy.
	UnassignedPolicy zones.UnassignedPolicy
	TrustDeviceTime  bool

	// Zone membership and classifier bands.
	Zones []zones.Membership
	Bands map[string][]classify.Band
}

// zoneFile is the YAML layout of the optional zone/band configuration file.
type zoneFile struct {
	Zones []struct {
		Zone    string   `yaml:"zone"`
		Devices []string `yaml:"devices"`
	} `yaml:"zones"`
	Bands map[string][]classify.Band `yaml:"bands"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherCity:       getenvDefault("WEATHER_CITY", "Calgary"),
		WeatherCountry:    getenvDefault("WEATHER_COUNTRY", "CA"),
		WeatherUnits:      getenvDefault("WEATHER_UNITS", "metric"),
		DataLogPath:       getenvDefault("DATA_LOG_FILE", "sensor_data.log"),
		DataLogBuffer:     getenvInt("DATA_LOG_BUFFER", 256),
		TodoDBPath:        getenvDefault("TODO_DB_PATH", "todo.db"),
		NotesDBPath:       getenvDefault("NOTES_DB_PATH", "notes.db"),
		TimersDBPath:      getenvDefault("TIMERS_DB_PATH", "timers.db"),
		MusicDBPath:       getenvDefault("MUSIC_DB_PATH", "music.db"),
		TrustDeviceTime:   getenvBool("TRUST_DEVICE_TIME", false),
	}

	var err error
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("WEATHER_REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.UnassignedPolicy = zones.UnassignedPolicy(getenvDefault("UNASSIGNED_DEVICE_POLICY", string(zones.PolicyLogOnly)))
	if !cfg.UnassignedPolicy.Valid() {
		return nil, fmt.Errorf("invalid UNASSIGNED_DEVICE_POLICY: %q", cfg.UnassignedPolicy)
	}

	cfg.Zones = defaultZones()
	cfg.Bands = classify.DefaultBands()

	if path := os.Getenv("ZONE_CONFIG_FILE"); path != "" {
		if err := cfg.loadZoneFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *AppConfig) loadZoneFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read zone config: %w", err)
	}

	var file zoneFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse zone config: %w", err)
	}

	if len(file.Zones) > 0 {
		c.Zones = c.Zones[:0]
		for _, z := range file.Zones {
			if z.Zone == "" {
				return fmt.Errorf("zone config: entry with empty zone name")
			}
			c.Zones = append(c.Zones, zones.Membership{Zone: z.Zone, Devices: z.Devices})
		}
	}
	if len(file.Bands) > 0 {
		c.Bands = file.Bands
	}
	return nil
}

// defaultZones mirrors the stock HomePOD room layout.
func defaultZones() []zones.Membership {
	return []zones.Membership{
		{Zone: "Bedroom", Devices: []string{"HomePOD_Env_Node", "HomePOD_Light_Node"}},
		{Zone: "Living Room", Devices: []string{"HomePOD_Env_Node_2"}},
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
