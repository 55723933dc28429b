package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/vuid"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	v, err := cfg.VariantValue()
	if err != nil || v != vuid.VariantVulkan {
		t.Fatalf("variant = %v, %v", v, err)
	}
	if cfg.Blocking {
		t.Error("default must not block")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		wantErr bool
	}{
		{
			name:  "empty",
			input: "",
			want:  Default(),
		},
		{
			name:  "full",
			input: "variant: vulkansc\nblocking: true\ncatalog_path: ids.yaml\nlog_level: debug\nmetrics_addr: ':9090'\n",
			want: Config{
				Variant:     "vulkansc",
				Blocking:    true,
				CatalogPath: "ids.yaml",
				LogLevel:    "debug",
				MetricsAddr: ":9090",
			},
		},
		{
			name:  "partial keeps defaults",
			input: "blocking: true\n",
			want:  Config{Variant: "vulkan", LogLevel: "info", Blocking: true},
		},
		{
			name:    "unknown key",
			input:   "verbose: true\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   "variant: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var e *errors.Error
				if !stderrors.As(err, &e) || e.Phase != errors.PhaseConfig {
					t.Errorf("error = %v, want config phase", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objtrack.yaml")
	if err := os.WriteFile(path, []byte("variant: vulkansc\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Variant != "vulkansc" || cfg.LogLevel != "info" {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvVariant, "vulkansc")
	t.Setenv(EnvBlocking, "true")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvMetricsAddr, "127.0.0.1:9100")
	t.Setenv(EnvCatalog, "/tmp/ids.json")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	want := Config{
		Variant:     "vulkansc",
		Blocking:    true,
		LogLevel:    "warn",
		MetricsAddr: "127.0.0.1:9100",
		CatalogPath: "/tmp/ids.json",
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestApplyEnvInvalidBool(t *testing.T) {
	t.Setenv(EnvBlocking, "sometimes")
	cfg := Default()
	err := cfg.ApplyEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, errors.New(errors.PhaseConfig, errors.KindInvalidInput).Build()) {
		t.Errorf("error = %v", err)
	}
}

func TestValidateAggregates(t *testing.T) {
	cfg := Config{
		Variant:     "opengl",
		LogLevel:    "loud",
		MetricsAddr: "no-port",
		CatalogPath: filepath.Join(t.TempDir(), "missing.json"),
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if n := len(multierr.Errors(err)); n != 4 {
		t.Fatalf("got %d errors, want 4: %v", n, err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "error"} {
		cfg := Default()
		cfg.LogLevel = level
		log, err := cfg.NewLogger()
		if err != nil {
			t.Fatalf("NewLogger(%s): %v", level, err)
		}
		if log == nil {
			t.Fatalf("NewLogger(%s) returned nil", level)
		}
	}

	cfg := Default()
	cfg.LogLevel = "loud"
	if _, err := cfg.NewLogger(); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
