package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/playpulse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.PingIntervalMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.CollectorURL, convey.ShouldEqual, "https://collector.api.video")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PLAYPULSE_ADDR", ":8080")
			_ = os.Setenv("PLAYPULSE_PING_INTERVAL_MS", "2500")
			_ = os.Setenv("PLAYPULSE_HTTP_TIMEOUT_MS", "750")
			_ = os.Setenv("PLAYPULSE_COLLECTOR_URL", "http://localhost:9080")
			_ = os.Setenv("PLAYPULSE_BREAKER_FAILURES", "3")
			_ = os.Setenv("PLAYPULSE_METRICS_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PingIntervalMS, convey.ShouldEqual, 2500)
				convey.So(cfg.HTTPTimeoutMS, convey.ShouldEqual, 750)
				convey.So(cfg.CollectorURL, convey.ShouldEqual, "http://localhost:9080")
				convey.So(cfg.BreakerFailures, convey.ShouldEqual, 3)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
ping_interval_ms: 5000
sim_sessions: 12
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYPULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.PingIntervalMS, convey.ShouldEqual, 5000)
				convey.So(cfg.SimSessions, convey.ShouldEqual, 12)
				convey.So(cfg.HTTPTimeoutMS, convey.ShouldEqual, 5000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
ping_interval_ms: 5000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYPULSE_CONFIG", tmpFile)
			_ = os.Setenv("PLAYPULSE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")         // Overridden by env
				convey.So(cfg.PingIntervalMS, convey.ShouldEqual, 5000) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYPULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PLAYPULSE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PLAYPULSE_PING_INTERVAL_MS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct{ key, value string }{
			{"PLAYPULSE_ADDR", ""},
			{"PLAYPULSE_PING_INTERVAL_MS", "0"},
			{"PLAYPULSE_HTTP_TIMEOUT_MS", "-1"},
			{"PLAYPULSE_BREAKER_FAILURES", "-2"},
			{"PLAYPULSE_COLLECTOR_URL", "not a url"},
		}
		for _, tc := range cases {
			convey.Convey("When "+tc.key+" is set to "+tc.value, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return an invalid config error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PLAYPULSE_CONFIG",
		"PLAYPULSE_ADDR",
		"PLAYPULSE_PING_INTERVAL_MS",
		"PLAYPULSE_HTTP_TIMEOUT_MS",
		"PLAYPULSE_COLLECTOR_URL",
		"PLAYPULSE_BREAKER_FAILURES",
		"PLAYPULSE_METRICS_ENABLED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "playpulse-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
