package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// Logging defaults
	ConstantLogDir      = "/var/log"
	ConstantLogFilename = "thermomap.log"
	ConstantLogFile     = ConstantLogDir + "/" + ConstantLogFilename

	ConstantConfigFilename = "/etc/default/thermomap"
	DefaultConfigFilename  = ConstantConfigFilename

	// Data defaults
	ConstantDataDir         = "/var/lib/thermomap"
	DefaultBuildingsFile    = ConstantDataDir + "/buildings_temperature.geo.json"
	DefaultRasterURLPattern = "/public/lst_%s.tif"

	// Service defaults
	DefaultServicePort         = 8246
	DefaultServiceHost         = "127.0.0.1"
	DefaultInsecureAllowRemote = false

	// DefaultChartCacheSize bounds the rendered charts kept in memory. One
	// entry is one building, statistic and hover combination.
	DefaultChartCacheSize = 256
	DefaultChartWidth     = 250
	DefaultChartHeight    = 250

	// logger
	DefaultLogLevel = "info"

	envPrefix = "TMAP_"
)

type Config struct {
	ServiceHost         string
	ServicePort         int
	InsecureAllowRemote bool
	LogLevel            string
	LogFile             string
	BuildingsFile       string
	RasterURLPattern    string
	ChartCacheSize      int
	ChartWidth          int
	ChartHeight         int
}

func (c *Config) Validate() error {
	if !isLocalhostAddr(c.ServiceHost) {
		if !c.InsecureAllowRemote {
			return fmt.Errorf(`binding to non-localhost address %q exposes the dashboard to the network.

The dashboard has no authentication. Binding to a network-accessible address
allows any host on the network to read the building data.

If you understand the risks and want to proceed anyway, use:
    --insecure-allow-remote
    or set TMAP_INSECURE_ALLOW_REMOTE=true`, c.ServiceHost)
		}
		fmt.Fprintf(os.Stderr, "WARNING: Binding to %q - unauthenticated dashboard will be network-accessible!\n", c.ServiceHost)
	}
	if c.ServicePort < 0 || c.ServicePort > 65535 {
		return fmt.Errorf("invalid port %d", c.ServicePort)
	}
	if c.ChartCacheSize <= 0 {
		return fmt.Errorf("chart cache size must be positive, got %d", c.ChartCacheSize)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	if strings.Count(c.RasterURLPattern, "%s") != 1 {
		return fmt.Errorf("raster url pattern %q must contain exactly one %%s", c.RasterURLPattern)
	}
	return nil
}

func isLocalhostAddr(host string) bool {
	switch host {
	case "127.0.0.1", "localhost", "::1", "":
		return true
	}
	return false
}

// Load reads filename (default /etc/default/thermomap) into the environment
// without overriding variables that are already set, then builds the
// config from TMAP_* variables.
func Load(filename string) *Config {
	if filename == "" {
		filename = ConstantConfigFilename
	}
	_ = godotenv.Load(filename)

	return &Config{
		ServiceHost:         getEnv("HOST", DefaultServiceHost),
		ServicePort:         getEnvInt("PORT", DefaultServicePort),
		InsecureAllowRemote: getEnvBool("INSECURE_ALLOW_REMOTE", DefaultInsecureAllowRemote),
		LogLevel:            getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFile:             getEnv("LOG_FILE", ConstantLogFile),
		BuildingsFile:       getEnv("BUILDINGS_FILE", DefaultBuildingsFile),
		RasterURLPattern:    getEnv("RASTER_URL_PATTERN", DefaultRasterURLPattern),
		ChartCacheSize:      getEnvInt("CHART_CACHE_SIZE", DefaultChartCacheSize),
		ChartWidth:          getEnvInt("CHART_WIDTH", DefaultChartWidth),
		ChartHeight:         getEnvInt("CHART_HEIGHT", DefaultChartHeight),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return fallback
}
