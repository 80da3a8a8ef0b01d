package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_SECRET", strings.Repeat("s", 32))
	t.Setenv("DATABASE", "mealdex")
	t.Setenv("DATABASE_USER", "mealdex")
	t.Setenv("DATABASE_PASSWORD", "hunter22")
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	setRequiredEnv(t)

	conf, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv() error = %v", err)
	}

	if conf.Env != EnvDev {
		t.Errorf("Env = %q, want %q", conf.Env, EnvDev)
	}
	if conf.IsProd() {
		t.Error("IsProd() = true, want false")
	}
	if conf.Port != 8080 {
		t.Errorf("Port = %d, want 8080", conf.Port)
	}
	if conf.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want 5432", conf.Database.Port)
	}
	if conf.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", conf.Database.Host, "localhost")
	}
	if conf.MealDB.BaseURL != DefaultMealDBBaseURL {
		t.Errorf("MealDB.BaseURL = %q, want %q", conf.MealDB.BaseURL, DefaultMealDBBaseURL)
	}
	if conf.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty", conf.Redis.Addr)
	}
	if string(conf.Secret()) != strings.Repeat("s", 32) {
		t.Error("Secret() does not match APP_SECRET")
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", EnvProd)
	t.Setenv("PORT", "9090")
	t.Setenv("MEALDB_URL", "http://localhost:9999/api/json/v1/1")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	conf, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv() error = %v", err)
	}

	if !conf.IsProd() {
		t.Error("IsProd() = false, want true")
	}
	if conf.Port != 9090 {
		t.Errorf("Port = %d, want 9090", conf.Port)
	}
	if conf.MealDB.BaseURL != "http://localhost:9999/api/json/v1/1" {
		t.Errorf("MealDB.BaseURL = %q", conf.MealDB.BaseURL)
	}
	if conf.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", conf.Redis.Addr)
	}
}

func TestLoadConfigFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "invalid port",
			env:  map[string]string{"PORT": "not-a-port"},
		},
		{
			name: "short app secret",
			env:  map[string]string{"APP_SECRET": "too-short"},
		},
		{
			name: "invalid env value",
			env:  map[string]string{"ENV": "STAGING"},
		},
		{
			name: "missing database credentials",
			env:  map[string]string{"DATABASE_PASSWORD": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := loadConfigFromEnv(); err == nil {
				t.Error("loadConfigFromEnv() error = nil, want error")
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mealdex.yaml")

	contents := `app_secret:
  value: "` + strings.Repeat("s", 32) + `"
database:
  database: mealdex
  user: mealdex
  password: hunter22
env: PROD
port: 9090
host_origin: https://mealdex.example.com
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	conf, err := loadConfigFromFile(path)
	if err != nil {
		t.Fatalf("loadConfigFromFile() error = %v", err)
	}

	if !conf.IsProd() {
		t.Error("IsProd() = false, want true")
	}
	if conf.Port != 9090 {
		t.Errorf("Port = %d, want 9090", conf.Port)
	}
	if conf.AppSecret.Version != "1" {
		t.Errorf("AppSecret.Version = %q, want %q", conf.AppSecret.Version, "1")
	}
	if conf.MealDB.BaseURL != DefaultMealDBBaseURL {
		t.Errorf("MealDB.BaseURL = %q, want default", conf.MealDB.BaseURL)
	}
}

func TestLoadAppSecretGeneratesAndPersists(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_SECRET", "")
	t.Setenv("APP_SECRET_PATH", filepath.Join(t.TempDir(), "secret"))

	first, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv() error = %v", err)
	}
	if len(first.Secret()) < appSecretBytes {
		t.Fatalf("generated secret length = %d, want >= %d", len(first.Secret()), appSecretBytes)
	}

	// A second load reads the persisted secret back.
	second, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv() error = %v", err)
	}
	if string(first.Secret()) != string(second.Secret()) {
		t.Error("secret was not persisted across loads")
	}
}
