package main

import (
	"github.com/spf13/pflag"

	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/serialization"
)

// hyperparamFlags are the optimizer flags shared by train and tune.
type hyperparamFlags struct {
	variant    string
	configPath string
	lr         float64
	decay      float64
	etaPlus    float64
	etaMinus   float64
	zetaMin    float64
	zetaMax    float64
}

func (f *hyperparamFlags) register(fs *pflag.FlagSet) {
	d := optim.DefaultWameAdapted()
	fs.StringVar(&f.variant, "variant", string(optim.VariantAdapted), "Optimizer variant: wame, wame_adapted")
	fs.StringVar(&f.configPath, "config", "", "Optimizer config file (YAML); flags override its values")
	fs.Float64Var(&f.lr, "lr", d.LR, "Learning rate (wame_adapted)")
	fs.Float64Var(&f.decay, "decay", d.Decay, "EMA decay: alpha (wame) or beta (wame_adapted)")
	fs.Float64Var(&f.etaPlus, "eta-plus", d.EtaPlus, "Zeta growth factor on gradient sign agreement")
	fs.Float64Var(&f.etaMinus, "eta-minus", d.EtaMinus, "Zeta shrink factor on gradient sign change")
	fs.Float64Var(&f.zetaMin, "zeta-min", d.ZetaMin, "Lower bound for zeta")
	fs.Float64Var(&f.zetaMax, "zeta-max", d.ZetaMax, "Upper bound for zeta")
}

// resolve builds hyperparameters from, in order of precedence: explicitly
// set flags, the config file, base. base is used only when no config file
// is given; a zero base means the defaults of the --variant flag.
func (f *hyperparamFlags) resolve(fs *pflag.FlagSet, base optim.Hyperparameters) (optim.Hyperparameters, error) {
	h := base
	switch {
	case f.configPath != "":
		loaded, err := serialization.LoadConfig(f.configPath)
		if err != nil {
			return optim.Hyperparameters{}, err
		}
		h = loaded
	case h.Variant == "":
		v, err := optim.ParseVariant(f.variant)
		if err != nil {
			return optim.Hyperparameters{}, err
		}
		if h, err = optim.Defaults(v); err != nil {
			return optim.Hyperparameters{}, err
		}
	}

	if fs.Changed("variant") {
		v, err := optim.ParseVariant(f.variant)
		if err != nil {
			return optim.Hyperparameters{}, err
		}
		if v != h.Variant {
			// Switching variant keeps the shared fields.
			d, _ := optim.Defaults(v)
			h.Variant, h.LR = v, d.LR
		}
	}

	overrides := []struct {
		flag  string
		value float64
		field *float64
	}{
		{"lr", f.lr, &h.LR},
		{"decay", f.decay, &h.Decay},
		{"eta-plus", f.etaPlus, &h.EtaPlus},
		{"eta-minus", f.etaMinus, &h.EtaMinus},
		{"zeta-min", f.zetaMin, &h.ZetaMin},
		{"zeta-max", f.zetaMax, &h.ZetaMax},
	}
	for _, o := range overrides {
		if fs.Changed(o.flag) {
			*o.field = o.value
		}
	}
	if h.Variant == optim.VariantWame {
		h.LR = 0
	}
	return h, h.Validate()
}
