package m3uparser

// DiagnosticKind classifies an anomaly the parser recovered from.
type DiagnosticKind int

const (
	// DiagnosticCommentIgnored is a comment line that is not an info directive.
	DiagnosticCommentIgnored DiagnosticKind = iota
	// DiagnosticDirectiveOverwritten is an info directive replaced by a later
	// one before any content line consumed it.
	DiagnosticDirectiveOverwritten
	// DiagnosticDirectiveDangling is an info directive left over at the end
	// of the input.
	DiagnosticDirectiveDangling
	// DiagnosticInvalidLocation is a content line dropped because it is
	// neither a URL nor a path.
	DiagnosticInvalidLocation
	DiagnosticBlankMetadata
	DiagnosticMetadataOverwritten
	// DiagnosticNestedMissing is a nested playlist that is not a regular file.
	DiagnosticNestedMissing
	// DiagnosticNestedUnreadable is a nested playlist that failed to load.
	DiagnosticNestedUnreadable
	// DiagnosticNestedCycle is a nested playlist that references one of the
	// playlists it is being expanded from.
	DiagnosticNestedCycle
)

var diagnosticNames = map[DiagnosticKind]string{
	DiagnosticCommentIgnored:       "comment_ignored",
	DiagnosticDirectiveOverwritten: "directive_overwritten",
	DiagnosticDirectiveDangling:    "directive_dangling",
	DiagnosticInvalidLocation:      "invalid_location",
	DiagnosticBlankMetadata:        "blank_metadata",
	DiagnosticMetadataOverwritten:  "metadata_overwritten",
	DiagnosticNestedMissing:        "nested_missing",
	DiagnosticNestedUnreadable:     "nested_unreadable",
	DiagnosticNestedCycle:          "nested_cycle",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticNames[k]; ok {
		return name
	}
	return "unknown"
}

// Diagnostic describes a line or nested playlist that was skipped or
// altered while parsing. Diagnostics never change the parse result.
type Diagnostic struct {
	Kind DiagnosticKind
	// Line is the offending line, metadata key or nested playlist path.
	Line   string
	Detail string
	Err    error
}

// DiagnosticFunc receives diagnostics as they happen.
type DiagnosticFunc func(Diagnostic)

func discardDiagnostics(Diagnostic) {}
