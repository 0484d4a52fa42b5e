// Package registry maps effect names and user-facing options to effects.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/MeKo-Tech/colorfx/internal/effect"
	"github.com/MeKo-Tech/colorfx/internal/histogram"
)

// ErrUnknownEffect is returned by NewEffect for names it does not know.
var ErrUnknownEffect = errors.New("unknown effect")

// EffectOptions carries the user-facing parameters of every effect.
// Each effect reads only the fields it needs.
type EffectOptions struct {
	HueColor  string         // "#rrggbb"; overrides Hue when set
	Channel   string         // histogram channel, "luminance" or "gray"
	Weights   effect.Weights // gray-weighted; zero means luma weights
	Hue       float64        // degrees, any real value; the shift angle for hue-shift
	Tolerance float64        // degrees, any real value
}

var constructors = map[string]func(EffectOptions) (effect.Effect, error){
	"gray": func(EffectOptions) (effect.Effect, error) {
		return effect.Gray{Weights: effect.LumaWeights}, nil
	},
	"gray-weighted": func(o EffectOptions) (effect.Effect, error) {
		w := o.Weights
		if w == (effect.Weights{}) {
			w = effect.LumaWeights
		}
		return effect.Gray{Weights: w, Weighted: true}, nil
	},
	"hue": func(o EffectOptions) (effect.Effect, error) {
		hue, err := o.hue()
		if err != nil {
			return nil, err
		}
		return effect.Rotate{Params: effect.NewRotateParams(hue)}, nil
	},
	"hue-shift": func(o EffectOptions) (effect.Effect, error) {
		return effect.Shift{Params: effect.NewShiftParams(o.Hue)}, nil
	},
	"keep": func(o EffectOptions) (effect.Effect, error) {
		hue, err := o.hue()
		if err != nil {
			return nil, err
		}
		return effect.Keep{Params: effect.NewKeepParams(hue, o.Tolerance)}, nil
	},
	"stretch": func(o EffectOptions) (effect.Effect, error) {
		ch, err := histogram.ParseChannel(o.Channel)
		if err != nil {
			return nil, err
		}
		return histogram.Stretch{Channel: ch}, nil
	},
	"equalize": func(o EffectOptions) (effect.Effect, error) {
		ch, err := histogram.ParseChannel(o.Channel)
		if err != nil {
			return nil, err
		}
		return histogram.Equalize{Channel: ch}, nil
	},
}

func (o EffectOptions) hue() (float64, error) {
	if o.HueColor == "" {
		return o.Hue, nil
	}
	return effect.HueFromHex(o.HueColor)
}

// NewEffect builds the named effect from opts.
func NewEffect(name string, opts EffectOptions) (effect.Effect, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	eff, err := ctor(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid options for effect %s: %w", name, err)
	}
	return eff, nil
}

// EffectNames lists the names NewEffect accepts, sorted.
func EffectNames() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParamString returns the canonical parameter string of eff, used as part of
// the archive key. Effects without parameters return "".
func ParamString(eff effect.Effect) string {
	switch e := eff.(type) {
	case effect.Gray:
		if e.Name() == "gray" {
			return ""
		}
		return "r=" + formatFloat(e.Weights.R) + " g=" + formatFloat(e.Weights.G) + " b=" + formatFloat(e.Weights.B)
	case effect.Rotate:
		return "hue=" + formatFloat(e.Params.Hue())
	case effect.Shift:
		return "shift=" + formatFloat(e.Params.Degrees())
	case effect.Keep:
		return "hue=" + formatFloat(e.Params.Hue()) + " tolerance=" + formatFloat(e.Params.Tolerance())
	case histogram.Stretch:
		return "channel=" + e.Channel.String()
	case histogram.Equalize:
		return "channel=" + e.Channel.String()
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
