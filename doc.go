// Package objtrack tracks the lifetime of Vulkan object handles and validates
// every API call that references them.
//
// It is a validation layer: it sits between an application and the driver,
// checks each call before it is forwarded and records created or destroyed
// objects afterwards. Violations are reported as diagnostics keyed by their
// VUID and never abort the call unless the layer runs in blocking mode.
//
// # Architecture Overview
//
//	objtrack/
//	├── handle/      Handle values and the closed set of handle kinds
//	├── ownership/   Parent/child graph and the per-kind scope (instance or device)
//	├── registry/    Concurrent handle registry with lifecycle observers
//	├── schema/      Per-command parameter descriptions driving the checks
//	├── vulkan/      Built-in schema, ownership model, VUID catalog and result codes
//	├── vuid/        Rule identifiers, catalogs and per-variant profiles
//	├── diag/        Diagnostics, locations and reporters
//	├── tracker/     Validation, recording and teardown over the registry
//	├── layer/       Call interception with blocking policy and reporters
//	├── config/      YAML and environment configuration, logger construction
//	├── metrics/     Prometheus collector for live objects and diagnostics
//	├── trace/       YAML call traces and replay through a layer
//	├── hostabi/     wazero host module exposing the tracker to guests
//	├── errors/      Structured errors for configuration and schema problems
//	└── cmd/objtrack Trace replay CLI with an interactive mode
//
// # Quick Start
//
// Run calls through a layer:
//
//	ly, err := layer.New(config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ly.Close()
//
//	res, out := ly.Call(ctx, tracker.Call{
//	    Command: "vkDestroyBuffer",
//	    Args:    schema.Record{"device": dev, "buffer": buf},
//	}, next)
//	for _, d := range out.Diagnostics {
//	    fmt.Println(d)
//	}
//
// # Thread Safety
//
// Tracker and Layer are safe for concurrent use. Validation and recording of
// the same handle from different goroutines may interleave; the registry
// tolerates a destroy racing a lookup and reports the object as unknown.
package objtrack
