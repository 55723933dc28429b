// Package errors provides structured error types for the objtrack module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, command and object type names, and cause chain.
//
// These errors describe programming and configuration faults: a malformed schema, a duplicate
// registry insert, an unreadable trace. Validation findings about application API usage are
// not errors; they are reported as diagnostics by package diag.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTrace, errors.KindTypeMismatch).
//		Path("pCreateInfos", "0", "layout").
//		Command("vkCreateGraphicsPipelines").
//		Object("VkPipelineLayout").
//		Detail("expected handle value").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Duplicate(errors.PhaseRecord, "VkBuffer", handle)
//	err := errors.NotFound(errors.PhaseSchema, "struct", "VkSubmitInfo")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
