package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConsoleConfig is the power console's configuration file, selected by the
// PWRCON_CONFIG environment variable.
type ConsoleConfig struct {
	Sources       []ConsoleSource `json:"sources"`
	PDFReportFile string          `json:"pdfReportFile,omitempty"`
}

// ConsoleSource is one service whose console logs are polled.
type ConsoleSource struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	AuthKey  string `json:"authKey"`
}

// LoadConsoleConfig reads and validates the console configuration file.
func LoadConsoleConfig(path string) (*ConsoleConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open console config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var cfg ConsoleConfig
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("cannot parse console config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("console config must list at least one source")
	}
	for i, source := range cfg.Sources {
		if source.Name == "" {
			return nil, fmt.Errorf("sources[%d]: name must not be empty", i)
		}
		if source.Endpoint == "" {
			return nil, fmt.Errorf("sources[%d]: endpoint must not be empty", i)
		}
		if source.AuthKey == "" {
			return nil, fmt.Errorf("sources[%d]: authKey must not be empty", i)
		}
	}
	return &cfg, nil
}
