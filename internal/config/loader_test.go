package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pja-project/mlapi/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.DefaultModel, convey.ShouldEqual, "gpt-4o-mini")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "data/catalog.json")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PJA_ADDR", ":9000")
			_ = os.Setenv("PJA_DEFAULT_MODEL", "gpt-4o")
			_ = os.Setenv("PJA_MAX_TOP_K", "5")
			_ = os.Setenv("PJA_SLACK_WEBHOOK_URL", "https://hooks.slack.example/T/B/x")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9000")
				convey.So(cfg.DefaultModel, convey.ShouldEqual, "gpt-4o")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 5)
				convey.So(cfg.SlackWebhookURL, convey.ShouldEqual, "https://hooks.slack.example/T/B/x")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
default_model: "gpt-4-turbo"
max_top_k: 3
search_max_features: 500
catalog_path: "/srv/catalog.json"
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("PJA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultModel, convey.ShouldEqual, "gpt-4-turbo")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 3)
				convey.So(cfg.SearchMaxFeatures, convey.ShouldEqual, 500)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/srv/catalog.json")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_top_k: 3
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("PJA_CONFIG", tmpFile)
			_ = os.Setenv("PJA_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("PJA_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When validation fails", func() {
			_ = os.Setenv("PJA_MAX_TOP_K", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an invalid config error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_top_k")
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"PJA_CONFIG",
		"PJA_ADDR",
		"PJA_LOG_LEVEL",
		"PJA_DEFAULT_MODEL",
		"PJA_MAX_TOP_K",
		"PJA_SEARCH_MAX_FEATURES",
		"PJA_SLACK_WEBHOOK_URL",
		"PJA_CATALOG_PATH",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
