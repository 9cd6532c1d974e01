package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyConfig()

	if cfg.Transducer.GetPitchNm() != 180000 {
		t.Errorf("GetPitchNm() = %f, want 180000", cfg.Transducer.GetPitchNm())
	}
	if cfg.Transducer.GetSoundSpeed() != 1490 {
		t.Errorf("GetSoundSpeed() = %f, want 1490", cfg.Transducer.GetSoundSpeed())
	}
	if cfg.Tx.GetDelayResNs() != 12.5 {
		t.Errorf("Tx.GetDelayResNs() = %f, want 12.5", cfg.Tx.GetDelayResNs())
	}
	if cfg.Rx.GetDelayResNs() != 20 {
		t.Errorf("Rx.GetDelayResNs() = %f, want 20", cfg.Rx.GetDelayResNs())
	}
	if cfg.Rx.GetC78Factor() != 16 {
		t.Errorf("GetC78Factor() = %f, want 16", cfg.Rx.GetC78Factor())
	}
	if cfg.Scan.GetXSteps() != 60 || cfg.Scan.GetYSteps() != 60 {
		t.Errorf("steps = %dx%d, want 60x60", cfg.Scan.GetXSteps(), cfg.Scan.GetYSteps())
	}
	if cfg.Scan.GetUseDelays() {
		t.Error("GetUseDelays() = true, want false")
	}
	if cfg.ASIC.ClockMHz() != 25 {
		t.Errorf("ClockMHz() = %d, want 25", cfg.ASIC.ClockMHz())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should validate: %v", err)
	}
}

// The TX aperture bounds follow the group layout: x spans the short side of
// the array, y the long side.
func TestTxApertureMatchesGroupLayout(t *testing.T) {
	cfg := EmptyConfig()
	wantX := float64(cfg.Transducer.GetXGroups()-1) / 2
	wantY := float64(cfg.Transducer.GetYGroups()-1) / 2
	if got := cfg.Tx.GetXMax(); got != wantX {
		t.Errorf("GetXMax() = %g, want %g", got, wantX)
	}
	if got := cfg.Tx.GetYMax(); got != wantY {
		t.Errorf("GetYMax() = %g, want %g", got, wantY)
	}
}

func TestDefaultsFileMatchesDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("defaults file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scan.json")

	testJSON := `{
  "transducer": {"sound_speed": 1540},
  "scan": {"x_steps": 10, "use_delays": true},
  "asic": {"clock": "high"}
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Transducer.GetSoundSpeed() != 1540 {
		t.Errorf("GetSoundSpeed() = %f, want 1540", cfg.Transducer.GetSoundSpeed())
	}
	if cfg.Scan.GetXSteps() != 10 {
		t.Errorf("GetXSteps() = %d, want 10", cfg.Scan.GetXSteps())
	}
	if !cfg.Scan.GetUseDelays() {
		t.Error("GetUseDelays() = false, want true")
	}
	if cfg.ASIC.ClockMHz() != 100 {
		t.Errorf("ClockMHz() = %d, want 100", cfg.ASIC.ClockMHz())
	}
	// Omitted fields keep defaults.
	if cfg.Scan.GetYSteps() != 60 {
		t.Errorf("GetYSteps() = %d, want 60", cfg.Scan.GetYSteps())
	}
}

func TestLoadConfigYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scan.yaml")

	testYAML := `
tx:
  l1: 8
  offset_hint_ns: 250
rx:
  c78_factor: 8
scan:
  focus_rx_m: 0.04
`
	if err := os.WriteFile(configPath, []byte(testYAML), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Tx.GetL1() != 8 {
		t.Errorf("Tx.GetL1() = %f, want 8", cfg.Tx.GetL1())
	}
	if cfg.Tx.GetOffsetHintNs() != 250 {
		t.Errorf("GetOffsetHintNs() = %f, want 250", cfg.Tx.GetOffsetHintNs())
	}
	if cfg.Rx.GetC78Factor() != 8 {
		t.Errorf("GetC78Factor() = %f, want 8", cfg.Rx.GetC78Factor())
	}
	if cfg.Scan.GetFocusRxM() != 0.04 {
		t.Errorf("GetFocusRxM() = %f, want 0.04", cfg.Scan.GetFocusRxM())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"bad extension", write("scan.txt", "{}"), "extension"},
		{"missing file", filepath.Join(tmpDir, "missing.json"), "stat"},
		{"bad json", write("bad.json", "{"), "parse config JSON"},
		{"bad yaml", write("bad.yaml", "scan: [1,"), "parse config YAML"},
		{"angle out of range", write("angle.json", `{"scan":{"x_max_deg":95}}`), "x_max_deg"},
		{"min above max", write("minmax.json", `{"scan":{"y_min_deg":10,"y_max_deg":5}}`), "y_min_deg"},
		{"zero steps", write("steps.json", `{"scan":{"x_steps":0}}`), "x_steps"},
		{"channel count", write("groups.json", `{"transducer":{"x_groups":8}}`), "x_groups*y_groups"},
		{"bad clock", write("clock.json", `{"asic":{"clock":"medium"}}`), "clock"},
		{"negative resolution", write("res.json", `{"rx":{"delay_res_ns":-1}}`), "delay_res_ns"},
		{"zero start depth", write("start.json", `{"rx":{"start_depth_m":0}}`), "start_depth_m"},
		{"stop above start", write("stop.json", `{"rx":{"start_depth_m":1e-3,"stop_depth_m":1e-4}}`), "stop_depth_m"},
		{"register overflow", write("reg.json", `{"asic":{"isel_lna":16}}`), "isel_lna"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigTooLarge(t *testing.T) {
	tmpDir := t.TempDir()
	p := filepath.Join(tmpDir, "huge.json")
	if err := os.WriteFile(p, make([]byte, 2*1024*1024), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
}
