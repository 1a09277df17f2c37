package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// KeypadConfig is the keypad controller's configuration file, selected with
// the -config flag.
type KeypadConfig struct {
	KeypadAPI         CentralAPISettings `json:"keypadControllerApi"`
	CentralController RemoteEndpoint     `json:"centralController"`
}

// LoadKeypadConfig reads and validates the keypad configuration file.
func LoadKeypadConfig(path string) (*KeypadConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open keypad config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var cfg KeypadConfig
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("cannot parse keypad config: %w", err)
	}

	if cfg.KeypadAPI.NetworkPort < 1 || cfg.KeypadAPI.NetworkPort > 65535 {
		return nil, fmt.Errorf("keypadControllerApi.networkPort %d is out of range",
			cfg.KeypadAPI.NetworkPort)
	}
	if cfg.KeypadAPI.AuthKey == "" {
		return nil, fmt.Errorf("keypadControllerApi.authKey must not be empty")
	}
	if cfg.CentralController.Endpoint == "" {
		return nil, fmt.Errorf("centralController.endpoint must not be empty")
	}
	if cfg.CentralController.AuthKey == "" {
		return nil, fmt.Errorf("centralController.authKey must not be empty")
	}
	return &cfg, nil
}
