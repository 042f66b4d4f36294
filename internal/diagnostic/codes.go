package diagnostic

//go:generate go tool stringer -type=Code -trimprefix=Code -output=code_string.go

// Code is a stable numeric identifier for a kind of violation.
// Values are part of the output contract and must never be renumbered.
type Code int

const (
	CodeNilInput Code = iota + 2000
	CodeUnknownEntitySet
	CodeUnknownAssociationSet
	CodeUnknownEntityType
	CodeUnknownAssociationType
	CodeUnknownTable
	CodeUnknownColumn
	CodeUnknownProperty
	CodeUnknownFunction
	CodeUnknownAssociationEnd
	CodeDuplicateName
	CodeTypeNotInSet
	CodeQueryViewWithFragments
	CodeDuplicateTypeQueryView
	CodeInvalidCondition
	CodeDuplicateCondition
	CodeDuplicateColumnMapping
	CodeComposableFunctionMapped
	CodeMissingFunctionMappingForType
	CodeInvalidAssociationFunctionMapping
	CodeMissingQueryViewClosure
	CodeMissingFunctionMappingClosure
	CodeAmbiguousFunctionMapping
	CodeAssociationSetNotMappedForOperation
	CodeEndMappingInvalidForEntityType
	CodeMultipleEndsMapped
	CodeInvalidDeclaration
	CodeUnknownParameter
)
