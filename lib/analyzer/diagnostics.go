package analyzer

// Diagnostic codes produced by the verification passes.
const (
	CodeUninitialized = "E0381" // possibly-uninitialized read
	CodeSignedIndex   = "E0850" // signed operand used as an index
	CodeFloatIndex    = "E0851" // float operand used as an index
	CodeInvalidIndex  = "E0852" // resolved but illegal index operand
)

// Diagnostic is a single structured finding. Findings are advisory: the
// passes append them to a returned list and never halt the pipeline.
type Diagnostic struct {
	Code       string
	Line       int
	Col        int
	Message    string
	Help       string
	Variable   string
	ActualType string
	Operator   string
}
