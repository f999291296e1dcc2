package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/toolboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TOOLBOARD_ADDR", ":8080")
			_ = os.Setenv("TOOLBOARD_SIGNIFICANT_DELTA", "8")
			_ = os.Setenv("TOOLBOARD_SNAPSHOT_BACKEND", "sqlite")
			_ = os.Setenv("TOOLBOARD_ADOPTION_JITTER", "2.5")
			_ = os.Setenv("TOOLBOARD_DEFAULT_WEIGHTS__UX", "0.4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SignificantDelta, convey.ShouldEqual, 8)
				convey.So(cfg.SnapshotBackend, convey.ShouldEqual, config.BackendSQLite)
				convey.So(cfg.AdoptionJitter, convey.ShouldEqual, 2.5)
				convey.So(cfg.DefaultWeights["ux"], convey.ShouldEqual, 0.4)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
# weekly batch settings
addr: ":9090"
log_format: json
snapshot_dir: /var/lib/toolboard/history
category_weights:
  Video: {quality: 0.5, ux: 0.3}
  Sales Intelligence:
    adoption: 0.4
boosts:
  chatgpt: {adoption: 20}
editor_callouts:
  Coding: Pair it with your existing IDE.
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("TOOLBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load tables and scalars from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.SnapshotDir, convey.ShouldEqual, "/var/lib/toolboard/history")
				convey.So(cfg.CategoryWeights["Video"], convey.ShouldResemble, map[string]float64{"quality": 0.5, "ux": 0.3})
				convey.So(cfg.CategoryWeights["Sales Intelligence"]["adoption"], convey.ShouldEqual, 0.4)
				convey.So(cfg.Boosts["chatgpt"]["adoption"], convey.ShouldEqual, 20)
				convey.So(cfg.EditorCallouts["Coding"], convey.ShouldEqual, "Pair it with your existing IDE.")
				convey.So(cfg.TopMoversLimit, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When an explicit path and env vars are both given", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\ntop_movers_limit: 7\n")
			_ = os.Setenv("TOOLBOARD_CONFIG", "/non/existent/file.yaml")
			_ = os.Setenv("TOOLBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then the path should win over TOOLBOARD_CONFIG and env over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TopMoversLimit, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TOOLBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("TOOLBOARD_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TOOLBOARD_TOP_MOVERS_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := config.Load(cctx, "")

			convey.Convey("Then it should return the context error", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TOOLBOARD_CONFIG",
		"TOOLBOARD_ADDR",
		"TOOLBOARD_SIGNIFICANT_DELTA",
		"TOOLBOARD_SNAPSHOT_BACKEND",
		"TOOLBOARD_ADOPTION_JITTER",
		"TOOLBOARD_DEFAULT_WEIGHTS__UX",
		"TOOLBOARD_TOP_MOVERS_LIMIT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "toolboard-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
