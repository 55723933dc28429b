// Package schema describes API commands and aggregates declaratively.
//
// Each Field carries its kind (scalar, handle or struct), whether it is an
// array sized by a count field, and its optionality. The tracker walks this
// description depth-first instead of reflecting over call arguments.
//
// Runtime argument values are carried in Record maps keyed by field name.
package schema
