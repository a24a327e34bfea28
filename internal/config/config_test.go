package config

import (
	"os"
	"path/filepath"
	"testing"

	"slotbook/internal/models"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
database:
  path: "test.db"
scheduling:
  max_range_days: 31
services:
  - id: 1
    professional_id: 7
    name: "Grooming"
    duration_minutes: 45
    price: 3500
    is_active: true
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "test.db" {
		t.Errorf("expected database path test.db, got %s", cfg.Database.Path)
	}

	if cfg.Scheduling.MaxRangeDays != 31 {
		t.Errorf("expected max range days 31, got %d", cfg.Scheduling.MaxRangeDays)
	}

	if len(cfg.Services) != 1 || cfg.Services[0].ID != 1 {
		t.Errorf("expected 1 service with ID 1")
	}
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SLOTBOOK_DB_PATH", "/var/lib/slotbook/app.db")

	yamlContent := `
database:
  path: "${SLOTBOOK_DB_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "/var/lib/slotbook/app.db" {
		t.Errorf("expected expanded database path, got %s", cfg.Database.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Services: []models.Service{{ID: 1, Name: "Grooming", DurationMinutes: 45}},
			},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "auth enabled without keys",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				API:      APIConfig{Enabled: true, Auth: APIAuthConfig{Enabled: true}},
			},
			wantErr: true,
		},
		{
			name: "duplicate service id",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Services: []models.Service{
					{ID: 1, Name: "Grooming", DurationMinutes: 45},
					{ID: 1, Name: "Checkup", DurationMinutes: 30},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.API.HTTP.Port != 8080 {
		t.Errorf("expected default HTTP port 8080, got %d", cfg.API.HTTP.Port)
	}
	if cfg.API.Auth.HeaderAPIKey != "x-api-key" {
		t.Errorf("expected default api key header, got %s", cfg.API.Auth.HeaderAPIKey)
	}
	if cfg.Scheduling.DefaultSlotIntervalMinutes != models.DefaultSlotInterval {
		t.Errorf("expected default slot interval %d, got %d", models.DefaultSlotInterval, cfg.Scheduling.DefaultSlotIntervalMinutes)
	}
	if cfg.Scheduling.MaxRangeDays != models.DefaultMaxRangeDays {
		t.Errorf("expected default max range days %d, got %d", models.DefaultMaxRangeDays, cfg.Scheduling.MaxRangeDays)
	}
	if cfg.Notifications.QueueSize != models.NotifyQueueSize {
		t.Errorf("expected default queue size %d, got %d", models.NotifyQueueSize, cfg.Notifications.QueueSize)
	}
}

func TestValidateServices(t *testing.T) {
	tests := []struct {
		name     string
		services []models.Service
		wantErr  bool
	}{
		{
			name: "Valid services",
			services: []models.Service{
				{ID: 1, Name: "Grooming", DurationMinutes: 45},
				{ID: 2, Name: "Checkup", DurationMinutes: 30},
			},
			wantErr: false,
		},
		{
			name: "Duplicate ID",
			services: []models.Service{
				{ID: 1, Name: "Grooming", DurationMinutes: 45},
				{ID: 1, Name: "Checkup", DurationMinutes: 30},
			},
			wantErr: true,
		},
		{
			name: "ID 0",
			services: []models.Service{
				{ID: 0, Name: "Grooming", DurationMinutes: 45},
			},
			wantErr: true,
		},
		{
			name: "Zero duration",
			services: []models.Service{
				{ID: 1, Name: "Grooming", DurationMinutes: 0},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServices(tt.services)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateServices() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
