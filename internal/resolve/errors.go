package resolve

import "errors"

var (
	// ErrUnknownReference marks an include or extends entry naming a
	// document that does not exist.
	ErrUnknownReference = errors.New("reference to unknown document")

	// ErrWrongKind marks a reference that resolved to a document of an
	// unusable kind, such as including a full build or extending a partial.
	ErrWrongKind = errors.New("reference to document of wrong kind")

	// ErrExtendsCycle marks an extends chain that loops back on itself.
	ErrExtendsCycle = errors.New("extends cycle")

	// ErrDuplicateArtifact marks two documents producing the same artifact
	// name on the same channel.
	ErrDuplicateArtifact = errors.New("duplicate artifact name")
)
