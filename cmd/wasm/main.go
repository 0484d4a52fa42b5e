//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"syscall/js"

	"github.com/MeKo-Tech/colorfx/internal/effect"
	"github.com/MeKo-Tech/colorfx/internal/registry"
)

// ApplyPixelRequest represents a single-pixel effect request from JS
type ApplyPixelRequest struct {
	Weights   *[3]float64 `json:"weights,omitempty"` // gray-weighted; nil means luma weights
	Effect    string      `json:"effect"`
	HueColor  string      `json:"hueColor"`
	Channel   string      `json:"channel"`
	Hue       float64     `json:"hue"`
	Tolerance float64     `json:"tolerance"`
	Pixel     [4]uint8    `json:"pixel"` // r, g, b, a
}

type ApplyPixelResponse struct {
	Pixel  [4]uint8 `json:"pixel"`
	Params string   `json:"params"`
}

// applyPixel is called from JavaScript to preview an effect on one color.
func applyPixel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]string{"error": "missing arguments"}
	}

	var req ApplyPixelRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return map[string]string{"error": fmt.Sprintf("failed to parse request: %v", err)}
	}

	opts := registry.EffectOptions{
		Hue:       req.Hue,
		HueColor:  req.HueColor,
		Tolerance: req.Tolerance,
		Channel:   req.Channel,
	}
	if req.Weights != nil {
		opts.Weights = effect.Weights{R: req.Weights[0], G: req.Weights[1], B: req.Weights[2]}
	}

	eff, err := registry.NewEffect(req.Effect, opts)
	if err != nil {
		return map[string]string{"error": err.Error()}
	}

	p := color.NRGBA{R: req.Pixel[0], G: req.Pixel[1], B: req.Pixel[2], A: req.Pixel[3]}
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, p)

	kernel, err := eff.Prepare(img)
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	out := kernel(p)

	resp, err := json.Marshal(ApplyPixelResponse{
		Pixel:  [4]uint8{out.R, out.G, out.B, out.A},
		Params: registry.ParamString(eff),
	})
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	return string(resp)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("colorfxApplyPixel", js.FuncOf(applyPixel))

	fmt.Println("colorfx WASM module loaded")
	<-c
}
