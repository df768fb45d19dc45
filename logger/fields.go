package logger

// Standard field names for consistent structured logging across easel.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldSessionID = "session_id"
	FieldClientID  = "client_id"
	FieldDocument  = "document"
	FieldVertexID  = "vertex_id"
	FieldEdgeID    = "edge_id"

	// Components
	FieldComponent = "component"
	FieldSymbol    = "symbol"

	// Operations
	FieldOperation = "operation"
	FieldMode      = "mode"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount    = "count"
	FieldVertices = "vertices"
	FieldEdges    = "edges"
)
