package config

import (
	"strconv"
	"strings"
	"testing"
)

func FuzzGetEnvInt(f *testing.F) {
	// Seed with some interesting values
	f.Add("42")
	f.Add("-1")
	f.Add("0")
	f.Add("")
	f.Add("not-a-number")
	f.Add("9999999999999999999999")
	f.Add("  123  ")
	f.Add("1.5")

	f.Fuzz(func(t *testing.T, input string) {
		if strings.ContainsRune(input, 0) {
			t.Skip()
		}
		t.Setenv(envPrefix+"FUZZ_TEST_INT", input)

		result := getEnvInt("FUZZ_TEST_INT", 42)
		if want, err := strconv.Atoi(strings.TrimSpace(input)); err == nil && result != want {
			t.Errorf("getEnvInt(%q) = %d, want %d", input, result, want)
		}
	})
}

func FuzzGetEnvBool(f *testing.F) {
	// Seed with interesting values
	f.Add("true")
	f.Add("false")
	f.Add("TRUE")
	f.Add("1")
	f.Add("0")
	f.Add("yes")
	f.Add("")
	f.Add("maybe")

	f.Fuzz(func(t *testing.T, input string) {
		if strings.ContainsRune(input, 0) {
			t.Skip()
		}
		t.Setenv(envPrefix+"FUZZ_TEST_BOOL", input)

		// Should never panic
		_ = getEnvBool("FUZZ_TEST_BOOL", false)
	})
}

func FuzzValidate(f *testing.F) {
	f.Add("127.0.0.1", 8246, 256, 250, 250, "/public/lst_%s.tif")
	f.Add("0.0.0.0", -1, 0, 0, 10, "")

	f.Fuzz(func(t *testing.T, host string, port, cacheSize, width, height int, pattern string) {
		cfg := Config{
			ServiceHost:         host,
			ServicePort:         port,
			InsecureAllowRemote: true,
			ChartCacheSize:      cacheSize,
			ChartWidth:          width,
			ChartHeight:         height,
			RasterURLPattern:    pattern,
		}
		if err := cfg.Validate(); err == nil && (cacheSize <= 0 || width <= 0 || height <= 0) {
			t.Errorf("Validate accepted %+v", cfg)
		}
	})
}
