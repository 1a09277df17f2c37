package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// ControllerConfig is the central controller's configuration file.
type ControllerConfig struct {
	CentralControllerAPI   CentralAPISettings      `json:"centralControllerApi"`
	KeypadController       RemoteEndpoint          `json:"keypadController"`
	GeneralSettings        GeneralSettings         `json:"generalSettings"`
	FailedAttemptResponses []FailedAttemptResponse `json:"failedAttemptResponses"`
}

type CentralAPISettings struct {
	NetworkPort int    `json:"networkPort"`
	AuthKey     string `json:"authKey"`
}

// RemoteEndpoint identifies another service plus the key used to call it.
type RemoteEndpoint struct {
	Endpoint string `json:"endpoint"`
	AuthKey  string `json:"authKey"`
}

type GeneralSettings struct {
	DevicesConfigFile     string `json:"devicesConfigFile"`
	DeviceTypesConfigFile string `json:"deviceTypesConfigFile"`
}

type FailedAttemptResponse struct {
	AttemptNo int                         `json:"attemptNo"`
	Actions   []FailedAttemptActionConfig `json:"actions"`
}

type FailedAttemptActionConfig struct {
	ActionType string            `json:"actionType"`
	Parameters []ActionParameter `json:"parameters"`
}

type ActionParameter struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// LoadControllerConfig reads and validates the configuration file. Any
// violation is an error; the controller refuses to start on bad config.
func LoadControllerConfig(path string) (*ControllerConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open controller config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var cfg ControllerConfig
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("cannot parse controller config: %w", err)
	}

	if cfg.CentralControllerAPI.NetworkPort < 1 || cfg.CentralControllerAPI.NetworkPort > 65535 {
		return nil, fmt.Errorf("centralControllerApi.networkPort %d is out of range",
			cfg.CentralControllerAPI.NetworkPort)
	}
	if cfg.CentralControllerAPI.AuthKey == "" {
		return nil, fmt.Errorf("centralControllerApi.authKey must not be empty")
	}
	if cfg.KeypadController.Endpoint == "" {
		return nil, fmt.Errorf("keypadController.endpoint must not be empty")
	}
	if cfg.KeypadController.AuthKey == "" {
		return nil, fmt.Errorf("keypadController.authKey must not be empty")
	}
	if cfg.GeneralSettings.DevicesConfigFile == "" {
		return nil, fmt.Errorf("generalSettings.devicesConfigFile must not be empty")
	}
	if cfg.GeneralSettings.DeviceTypesConfigFile == "" {
		return nil, fmt.Errorf("generalSettings.deviceTypesConfigFile must not be empty")
	}

	for _, response := range cfg.FailedAttemptResponses {
		if response.AttemptNo < 1 || response.AttemptNo > 100 {
			return nil, fmt.Errorf("failedAttemptResponses attemptNo %d is out of range",
				response.AttemptNo)
		}
		for _, action := range response.Actions {
			if _, err := buildAction(action); err != nil {
				return nil, fmt.Errorf("failedAttemptResponses attempt %d: %w",
					response.AttemptNo, err)
			}
		}
	}

	return &cfg, nil
}

// FailedAttemptTable converts the configured responses into the domain form
// used by the state manager. Call after LoadControllerConfig has validated.
func (c *ControllerConfig) FailedAttemptTable() domain.FailedAttemptResponses {
	table := make(domain.FailedAttemptResponses, len(c.FailedAttemptResponses))
	for _, response := range c.FailedAttemptResponses {
		actions := make([]domain.FailedAttemptAction, 0, len(response.Actions))
		for _, action := range response.Actions {
			built, err := buildAction(action)
			if err != nil {
				continue
			}
			actions = append(actions, built)
		}
		table[response.AttemptNo] = actions
	}
	return table
}

func buildAction(action FailedAttemptActionConfig) (domain.FailedAttemptAction, error) {
	switch domain.FailedAttemptActionType(action.ActionType) {
	case domain.ActionDisableKeyPad:
		lockTime, found := 0, false
		for _, param := range action.Parameters {
			if param.Key != "lockTime" {
				return domain.FailedAttemptAction{},
					fmt.Errorf("disableKeyPad has unknown parameter %q", param.Key)
			}
			parsed, err := parameterInt(param.Value)
			if err != nil {
				return domain.FailedAttemptAction{},
					fmt.Errorf("disableKeyPad lockTime: %w", err)
			}
			lockTime, found = parsed, true
		}
		if !found {
			return domain.FailedAttemptAction{},
				fmt.Errorf("disableKeyPad requires a lockTime parameter")
		}
		return domain.FailedAttemptAction{
			Type:     domain.ActionDisableKeyPad,
			LockTime: lockTime,
		}, nil

	case domain.ActionTriggerAlarm, domain.ActionResetAttemptAccount:
		if len(action.Parameters) != 0 {
			return domain.FailedAttemptAction{},
				fmt.Errorf("%s takes no parameters", action.ActionType)
		}
		return domain.FailedAttemptAction{
			Type: domain.FailedAttemptActionType(action.ActionType),
		}, nil
	}
	return domain.FailedAttemptAction{},
		fmt.Errorf("unknown actionType %q", action.ActionType)
}

func parameterInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) || v < 0 {
			return 0, fmt.Errorf("%v is not a non-negative integer", v)
		}
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return 0, fmt.Errorf("%q is not a non-negative integer", v)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("unsupported parameter value %v", value)
}
