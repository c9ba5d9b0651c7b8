package optim

import (
	"fmt"
	"math"
)

// Variant selects the WAME update formula.
type Variant string

// Supported variants.
const (
	// VariantWame is the reference formulation: theta averages a constant
	// observation and the step scale is fixed.
	VariantWame Variant = "wame"

	// VariantAdapted averages squared gradients into theta and scales the
	// step by lr / (sqrt(theta) + eps).
	VariantAdapted Variant = "wame_adapted"
)

// ParseVariant converts a name to a Variant.
func ParseVariant(name string) (Variant, error) {
	switch v := Variant(name); v {
	case VariantWame, VariantAdapted:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}

// Hyperparameters configures a Wame optimizer.
//
// Fields are shared by both variants under different config names:
//
//	field     VariantWame   VariantAdapted
//	LR        -             lr
//	Decay     alpha         beta
//	EtaPlus   eta_pos       eta_plus
//	EtaMinus  eta_neg       eta_minus
//	ZetaMin   zeta_min      zeta_min
//	ZetaMax   zeta_max      zeta_max
//
// VariantWame does not use LR and keeps it at zero.
type Hyperparameters struct {
	Variant  Variant
	LR       float64 // Base learning rate (VariantAdapted only, default: 0.001)
	Decay    float64 // EMA decay for z and theta (default: 0.9)
	EtaPlus  float64 // Zeta growth factor on sign agreement (default: 1.2)
	EtaMinus float64 // Zeta shrink factor on sign change (default: 0.1)
	ZetaMin  float64 // Lower clamp for zeta (default: 0.01)
	ZetaMax  float64 // Upper clamp for zeta (default: 100)
}

const (
	// wameStepScale is the fixed step numerator of VariantWame.
	wameStepScale = 0.1

	// adaptedEpsilon keeps the VariantAdapted denominator away from zero.
	adaptedEpsilon = 1e-11
)

// DefaultWame returns the VariantWame defaults.
func DefaultWame() Hyperparameters {
	return Hyperparameters{
		Variant:  VariantWame,
		Decay:    0.9,
		EtaPlus:  1.2,
		EtaMinus: 0.1,
		ZetaMin:  0.01,
		ZetaMax:  100,
	}
}

// DefaultWameAdapted returns the VariantAdapted defaults.
func DefaultWameAdapted() Hyperparameters {
	return Hyperparameters{
		Variant:  VariantAdapted,
		LR:       0.001,
		Decay:    0.9,
		EtaPlus:  1.2,
		EtaMinus: 0.1,
		ZetaMin:  0.01,
		ZetaMax:  100,
	}
}

// Defaults returns the defaults of variant v.
func Defaults(v Variant) (Hyperparameters, error) {
	switch v {
	case VariantWame:
		return DefaultWame(), nil
	case VariantAdapted:
		return DefaultWameAdapted(), nil
	default:
		return Hyperparameters{}, fmt.Errorf("%w: %w: %q", ErrInvalidHyperparameter, ErrUnknownVariant, v)
	}
}

// withDefaults fills zero fields from the variant defaults. An empty
// Variant selects VariantAdapted.
func (h Hyperparameters) withDefaults() Hyperparameters {
	if h.Variant == "" {
		h.Variant = VariantAdapted
	}
	d, err := Defaults(h.Variant)
	if err != nil {
		return h // Validate reports the variant
	}
	if h.LR == 0 {
		h.LR = d.LR
	}
	if h.Decay == 0 {
		h.Decay = d.Decay
	}
	if h.EtaPlus == 0 {
		h.EtaPlus = d.EtaPlus
	}
	if h.EtaMinus == 0 {
		h.EtaMinus = d.EtaMinus
	}
	if h.ZetaMin == 0 {
		h.ZetaMin = d.ZetaMin
	}
	if h.ZetaMax == 0 {
		h.ZetaMax = d.ZetaMax
	}
	return h
}

// Validate checks value ranges.
//
// Rejected: a decay outside (0,1), zeta_min <= 0, zeta_min >= zeta_max,
// non-finite values, lr <= 0 for VariantAdapted and lr != 0 for
// VariantWame. The eta factors are
// only required to be finite; eta_plus > 1 > eta_minus > 0 is the intended
// regime but is not enforced.
func (h Hyperparameters) Validate() error {
	if _, err := Defaults(h.Variant); err != nil {
		return err
	}
	names := h.names()

	for _, k := range configKeys(h.Variant) {
		v := *k.field(&h)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &HyperparameterError{Field: k.name, Value: v, Reason: "must be finite"}
		}
	}
	if h.Decay <= 0 || h.Decay >= 1 {
		return &HyperparameterError{Field: names.decay, Value: h.Decay, Reason: "must be in (0, 1)"}
	}
	if h.ZetaMin <= 0 {
		return &HyperparameterError{Field: "zeta_min", Value: h.ZetaMin, Reason: "must be > 0"}
	}
	if h.ZetaMin >= h.ZetaMax {
		return &HyperparameterError{
			Field:  "zeta_max",
			Value:  h.ZetaMax,
			Reason: fmt.Sprintf("must be > zeta_min (%g)", h.ZetaMin),
		}
	}
	switch {
	case h.Variant == VariantAdapted && h.LR <= 0:
		return &HyperparameterError{Field: "lr", Value: h.LR, Reason: "must be > 0"}
	case h.Variant == VariantWame && h.LR != 0:
		return &HyperparameterError{Field: "lr", Value: h.LR, Reason: "not used by wame, must be 0"}
	}
	return nil
}

type variantNames struct {
	decay, etaPlus, etaMinus string
}

func (h Hyperparameters) names() variantNames {
	if h.Variant == VariantWame {
		return variantNames{decay: "alpha", etaPlus: "eta_pos", etaMinus: "eta_neg"}
	}
	return variantNames{decay: "beta", etaPlus: "eta_plus", etaMinus: "eta_minus"}
}

// configKey binds an exported config name to a Hyperparameters field.
type configKey struct {
	name  string
	field func(h *Hyperparameters) *float64
}

func configKeys(v Variant) []configKey {
	n := Hyperparameters{Variant: v}.names()
	keys := []configKey{
		{n.decay, func(h *Hyperparameters) *float64 { return &h.Decay }},
		{n.etaPlus, func(h *Hyperparameters) *float64 { return &h.EtaPlus }},
		{n.etaMinus, func(h *Hyperparameters) *float64 { return &h.EtaMinus }},
		{"zeta_min", func(h *Hyperparameters) *float64 { return &h.ZetaMin }},
		{"zeta_max", func(h *Hyperparameters) *float64 { return &h.ZetaMax }},
	}
	if v == VariantAdapted {
		keys = append([]configKey{{"lr", func(h *Hyperparameters) *float64 { return &h.LR }}}, keys...)
	}
	return keys
}

// ExportConfig returns every hyperparameter of h's variant keyed by its
// config name. The variant itself is not part of the map; callers that
// persist configs record it alongside.
func (h Hyperparameters) ExportConfig() map[string]float64 {
	keys := configKeys(h.Variant)
	config := make(map[string]float64, len(keys))
	for _, k := range keys {
		config[k.name] = *k.field(&h)
	}
	return config
}

// ImportConfig builds Hyperparameters of variant v from a config map.
//
// Starts from the variant defaults and overrides every key present in
// config. Keys that do not belong to the variant (for example entries of a
// host framework's base config) are ignored. The result is validated.
func ImportConfig(v Variant, config map[string]float64) (Hyperparameters, error) {
	h, err := Defaults(v)
	if err != nil {
		return Hyperparameters{}, err
	}
	for _, k := range configKeys(v) {
		if value, ok := config[k.name]; ok {
			*k.field(&h) = value
		}
	}
	if err := h.Validate(); err != nil {
		return Hyperparameters{}, err
	}
	return h, nil
}
