package serialization

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/wame/internal/optim"
)

// OptimizerConfig is the on-disk form of optim.Hyperparameters.
type OptimizerConfig struct {
	Optimizer string             `yaml:"optimizer"`
	Config    map[string]float64 `yaml:"config"`
}

// NewOptimizerConfig captures h.
func NewOptimizerConfig(h optim.Hyperparameters) OptimizerConfig {
	return OptimizerConfig{
		Optimizer: string(h.Variant),
		Config:    h.ExportConfig(),
	}
}

// Hyperparameters validates c and converts it back.
func (c OptimizerConfig) Hyperparameters() (optim.Hyperparameters, error) {
	if c.Optimizer == "" {
		return optim.Hyperparameters{}, ErrMissingOptimizer
	}
	v, err := optim.ParseVariant(c.Optimizer)
	if err != nil {
		return optim.Hyperparameters{}, err
	}
	return optim.ImportConfig(v, c.Config)
}

// EncodeConfig writes h as a YAML config document.
func EncodeConfig(w io.Writer, h optim.Hyperparameters) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewOptimizerConfig(h)); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// DecodeConfig reads a YAML config document.
//
// Missing keys take the variant defaults; unknown top-level fields are
// rejected.
func DecodeConfig(r io.Reader) (optim.Hyperparameters, error) {
	var c OptimizerConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return optim.Hyperparameters{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return c.Hyperparameters()
}

// SaveConfig writes h to path.
func SaveConfig(path string, h optim.Hyperparameters) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return EncodeConfig(f, h)
}

// LoadConfig reads a config file from path.
func LoadConfig(path string) (optim.Hyperparameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return optim.Hyperparameters{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	h, err := DecodeConfig(f)
	if err != nil {
		return optim.Hyperparameters{}, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}
