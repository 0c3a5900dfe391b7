// Package types provides the value model shared across valkeeper components.
//
// Value is the dynamic tree every schema is evaluated against. Conversions
// from native Go values, JSON and protobuf Struct values live alongside it so
// transports never need to know the internal representation. ID utilities in
// ids.go import uuid and are isolated from the value code.
package types

// Resource limits enforced by the rule engine.
const (
	// MaxPathDepth prevents unbounded traversal of hostile field paths.
	// 16 levels handles deeply nested documents (a.b.c...) comfortably.
	MaxPathDepth = 16

	// MaxSchemaFields bounds the number of leaves one object schema may hold.
	MaxSchemaFields = 1024
)
