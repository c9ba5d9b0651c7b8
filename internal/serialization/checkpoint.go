package serialization

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/tensor"
)

// FormatVersion is the checkpoint document version written by this package.
const FormatVersion = 1

// TensorRecord is the on-disk form of a tensor.
type TensorRecord struct {
	Shape []int     `yaml:"shape,flow"`
	Data  []float64 `yaml:"data,flow"`
}

// NewTensorRecord copies raw into a record.
func NewTensorRecord(raw *tensor.RawTensor) TensorRecord {
	return TensorRecord{
		Shape: []int(raw.Shape().Clone()),
		Data:  slices.Clone(raw.Data()),
	}
}

// Tensor converts the record back to a RawTensor.
func (r TensorRecord) Tensor() (*tensor.RawTensor, error) {
	return tensor.FromSlice(r.Data, tensor.Shape(r.Shape))
}

// Checkpoint is a complete optimizer snapshot: configuration, parameter
// values keyed by parameter name, and the optimizer state dict.
//
// Parameter names must be unique within the optimizer.
type Checkpoint struct {
	Version   int                     `yaml:"version"`
	CreatedAt time.Time               `yaml:"created_at"`
	Optimizer OptimizerConfig         `yaml:"optimizer"`
	Params    map[string]TensorRecord `yaml:"params"`
	State     map[string]TensorRecord `yaml:"state"`
	Metadata  map[string]string       `yaml:"metadata,omitempty"`
	Checksum  string                  `yaml:"checksum"`
}

// NewCheckpoint snapshots opt and its parameters.
func NewCheckpoint(opt *optim.Wame) (*Checkpoint, error) {
	params := make(map[string]TensorRecord)
	for _, p := range opt.Parameters() {
		if _, dup := params[p.Name()]; dup {
			return nil, &ValidationError{Err: ErrDuplicateParam, Tensor: p.Name()}
		}
		params[p.Name()] = NewTensorRecord(p.Tensor())
	}

	state := make(map[string]TensorRecord)
	for key, raw := range opt.StateDict() {
		state[key] = NewTensorRecord(raw)
	}

	c := &Checkpoint{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Optimizer: NewOptimizerConfig(opt.Hyperparameters()),
		Params:    params,
		State:     state,
	}
	c.Checksum = ComputeChecksum(c.Params, c.State)
	return c, nil
}

// Iterations returns the step counter recorded in the checkpoint.
func (c *Checkpoint) Iterations() int64 {
	rec, ok := c.State["iterations"]
	if !ok || len(rec.Data) != 1 {
		return 0
	}
	return int64(rec.Data[0])
}

// Restore loads the checkpoint into opt: hyperparameters, state dict and
// parameter values.
//
// Every optimizer parameter must appear in the checkpoint with the same
// shape and vice versa. Everything is validated before opt or its
// parameters are modified.
func (c *Checkpoint) Restore(opt *optim.Wame) error {
	h, err := c.Optimizer.Hyperparameters()
	if err != nil {
		return fmt.Errorf("checkpoint config: %w", err)
	}

	byName := make(map[string]*nn.Parameter, len(opt.Parameters()))
	values := make(map[*nn.Parameter]*tensor.RawTensor, len(opt.Parameters()))
	for _, p := range opt.Parameters() {
		if _, dup := byName[p.Name()]; dup {
			return &ValidationError{Err: ErrDuplicateParam, Tensor: p.Name()}
		}
		byName[p.Name()] = p

		rec, ok := c.Params[p.Name()]
		if !ok {
			return &ValidationError{Err: ErrMissingParam, Tensor: p.Name()}
		}
		raw, err := rec.Tensor()
		if err != nil {
			return &ValidationError{Err: ErrInvalidTensorData, Tensor: p.Name(), Details: err.Error()}
		}
		if !raw.Shape().Equal(p.Tensor().Shape()) {
			return &optim.ShapeError{Param: p.Name(), Want: p.Tensor().Shape(), Got: raw.Shape()}
		}
		values[p] = raw
	}

	names := maps.Keys(c.Params)
	slices.Sort(names)
	for _, name := range names {
		if _, ok := byName[name]; !ok {
			return &ValidationError{Err: ErrUnknownParam, Tensor: name}
		}
	}

	stateDict := make(map[string]*tensor.RawTensor, len(c.State))
	for key, rec := range c.State {
		raw, err := rec.Tensor()
		if err != nil {
			return &ValidationError{Err: ErrInvalidTensorData, Tensor: key, Details: err.Error()}
		}
		stateDict[key] = raw
	}

	if err := opt.LoadState(h, stateDict); err != nil {
		return fmt.Errorf("failed to load optimizer state: %w", err)
	}
	for p, raw := range values {
		if err := p.Tensor().CopyFrom(raw); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the checkpoint as YAML.
func (c *Checkpoint) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return enc.Close()
}

// DecodeCheckpoint reads a YAML checkpoint and verifies its checksum.
func DecodeCheckpoint(r io.Reader) (*Checkpoint, error) {
	var c Checkpoint
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if c.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", c.Version)
	}
	if err := ValidateChecksum(ComputeChecksum(c.Params, c.State), c.Checksum); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes the checkpoint to path.
func (c *Checkpoint) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return c.Encode(f)
}

// LoadCheckpoint reads a checkpoint from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer f.Close()

	c, err := DecodeCheckpoint(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
