// Package registry holds the working set of classified build documents,
// keyed by document identity.
//
// The registry is the shared state of the resolution pipeline: partial
// inclusion deletes consumed fragments from it, extension resolution
// replaces extended documents with their merged full equivalents, and
// finalization walks whatever remains. It is created per pipeline run and
// passed explicitly between stages; nothing in this package is global.
package registry
