//go:build js && wasm

// Command wasm exposes the simulator to the browser via WebAssembly. After
// loading, it registers two global JavaScript functions:
//
//	simulateDrag(jsonRequest) -> jsonResponse | {error}
//	simulateLap(jsonRequest)  -> jsonResponse | {error}
//
// Both take and return JSON strings in the shapes accepted by the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/jude-pinkman/Hypercar-Sim/internal/sim"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

func main() {
	catalog, err := vehicle.NewCatalog("")
	if err != nil {
		panic(err)
	}
	runner := sim.NewRunner(catalog, nil)

	js.Global().Set("simulateDrag", jsFunc(runner.RunDragJSON))
	js.Global().Set("simulateLap", jsFunc(runner.RunLapJSON))

	// Keep the Go runtime alive so the registered functions stay callable.
	select {}
}

func jsFunc(run func(context.Context, string) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 1 {
			return errJSON("expected exactly one JSON string argument")
		}
		out, err := run(context.Background(), args[0].String())
		if err != nil {
			return errJSON(err.Error())
		}
		return out
	})
}

func errJSON(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}
