package timer

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Config is the serializable part of a timer. Runtime state (elapsed time,
// state, callbacks, subscribers) is not part of it.
type Config struct {
	Name     string        `yaml:"name,omitempty" cbor:"1,keyasint,omitempty"`
	Duration time.Duration `yaml:"duration" cbor:"2,keyasint"`
	Loop     bool          `yaml:"loop,omitempty" cbor:"3,keyasint,omitempty"`
}

// Validate checks that the configuration can build a timer.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, c.Duration)
	}
	return nil
}

// Config returns the timer's current configuration.
func (t *Timer) Config() Config {
	return Config{Name: t.name, Duration: t.duration, Loop: t.loop}
}

// NewFromConfig creates an idle timer from cfg. Options are applied after
// the configuration, so they may override it.
func NewFromConfig(s *Scheduler, cfg Config, opts ...Option) (*Timer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []Option{WithName(cfg.Name), WithLoop(cfg.Loop)}
	return New(s, cfg.Duration, append(base, opts...)...)
}

var (
	configEncMode cbor.EncMode
	configDecMode cbor.DecMode
)

func init() {
	var err error

	configEncMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create config CBOR encoder mode: %v", err))
	}

	configDecMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create config CBOR decoder mode: %v", err))
	}
}

// EncodeConfigs encodes timer configurations as a CBOR array.
func EncodeConfigs(cfgs []Config) ([]byte, error) {
	return configEncMode.Marshal(cfgs)
}

// DecodeConfigs decodes a CBOR array produced by EncodeConfigs and
// validates every entry.
func DecodeConfigs(data []byte) ([]Config, error) {
	var cfgs []Config
	if err := configDecMode.Unmarshal(data, &cfgs); err != nil {
		return nil, fmt.Errorf("decode timer configs: %w", err)
	}
	for i, c := range cfgs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("timer config %d (%q): %w", i, c.Name, err)
		}
	}
	return cfgs, nil
}
