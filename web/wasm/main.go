//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/cwbudde/algo-tinnitus/internal/webdemo"
)

var (
	engine *webdemo.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		if engine != nil {
			_ = engine.Close()
		}
		e, err := webdemo.NewEngine(sr)
		if err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	api.Set("setRunning", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		if err := engine.SetRunning(args[0].Bool()); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setSettings", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		if err := engine.SetSettingsJSON([]byte(args[0].String())); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("render", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		n := args[0].Int()
		buf := make([]float32, 2*n)
		engine.Render(buf)
		return float32Array(buf)
	}))

	api.Set("spectrum", export(func(args []js.Value) any {
		if engine == nil {
			return js.Global().Get("Uint8Array").New(0)
		}
		bins := make([]byte, engine.SpectrumBins())
		engine.Spectrum(bins)
		arr := js.Global().Get("Uint8Array").New(len(bins))
		js.CopyBytesToJS(arr, bins)
		return arr
	}))

	api.Set("notchEmulated", export(func(args []js.Value) any {
		return engine != nil && engine.NotchEmulated()
	}))

	api.Set("export", export(func(args []js.Value) any {
		if engine == nil {
			return js.Global().Get("Float32Array").New(0)
		}
		seconds := 0.0
		if len(args) > 0 {
			seconds = args[0].Float()
		}
		pcm, err := engine.Export(context.Background(), seconds)
		if err != nil {
			return err.Error()
		}
		return float32Array(pcm)
	}))

	js.Global().Set("TinnitusSynth", api)
	select {}
}

func float32Array(buf []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(buf))
	for i, v := range buf {
		arr.SetIndex(i, v)
	}
	return arr
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
