// Package toolchain holds the tool Registry and the text protocol the Executor uses to call
// tools.
//
// # Registry
//
// A Registry maps tool names to planact.Tool values and renders the tool catalogs placed in
// prompts:
//
//	reg := toolchain.NewRegistry(tools.NewCalculateTool(), tools.NewWeatherTool())
//
//	reg.Catalog()         // names and descriptions
//	reg.DetailedCatalog() // plus parameters and output fields
//
// Unknown names are only reported when dispatched, never at construction.
//
// # Actions
//
// The model requests a tool by writing a single line:
//
//	Action: {"tool": "CalculateTool", "parameters": {"expression": "15 * 45"}}
//
// [ParseAction] finds the first such line. [Registry.Dispatch] runs it, and
// [ObservationPrompt] turns the result into the next prompt:
//
//	Observation: {"result": 675}
//
// Parameters are passed to the tool exactly as decoded. Tools validate their own input.
package toolchain
