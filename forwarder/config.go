package forwarder

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// yamlForwarderConfig represents the YAML configuration structure for a forwarder
type yamlForwarderConfig struct {
	Mode struct {
		Debug bool `yaml:"debug"`
	} `yaml:"mode"`
	Function struct {
		Name            string `yaml:"name"`
		MemoryLimitInMB int    `yaml:"memoryLimitInMB"`
	} `yaml:"function"`
	Context struct {
		RemainingTimeInMillis *int   `yaml:"remainingTimeInMillis"`
		Countdown             *bool  `yaml:"countdown"`
		LogGroupName          string `yaml:"logGroupName"`
		LogStreamName         string `yaml:"logStreamName"`
	} `yaml:"context"`
}

func optionFromForwarderConfig(cfg yamlForwarderConfig) Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = cfg.Mode.Debug

		if cfg.Function.Name != "" {
			o.FunctionName = cfg.Function.Name
		}
		if cfg.Function.MemoryLimitInMB > 0 {
			o.MemoryLimitInMB = cfg.Function.MemoryLimitInMB
		}

		if cfg.Context.RemainingTimeInMillis != nil {
			o.RemainingTimeMs = *cfg.Context.RemainingTimeInMillis
		}
		if cfg.Context.Countdown != nil {
			o.Countdown = *cfg.Context.Countdown
		}
		if cfg.Context.LogGroupName != "" {
			o.LogGroupName = cfg.Context.LogGroupName
		}
		if cfg.Context.LogStreamName != "" {
			o.LogStreamName = cfg.Context.LogStreamName
		}
	})
}

// optionFromConfigBytes parses YAML bytes and returns an Option.
// Returns an error if the YAML is invalid.
func optionFromConfigBytes(b []byte) (Option, error) {
	var cfg yamlForwarderConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	return optionFromForwarderConfig(cfg), nil
}

// WithConfig parses YAML bytes following forwarder.yml structure and applies it to Options.
// It panics if the YAML is invalid.
func WithConfig(yamlBytes []byte) Option {
	opt, err := optionFromConfigBytes(yamlBytes)
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("forwarder.WithConfig: %w", err))
		})
	}
	return opt
}

// WithConfigFile loads a YAML file and applies it to Options.
// It panics if the file cannot be read or YAML is invalid.
func WithConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("forwarder.WithConfigFile(%s): %w", path, err))
		})
	}
	return WithConfig(b)
}
