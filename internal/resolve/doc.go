// Package resolve turns a pile of raw build documents into a registry of
// schema-valid, self-contained full documents.
//
// Resolution is a fixed four-stage pipeline over a shared registry:
//
//  1. Classify tags every raw document as full, partial or extended and
//     validates it against the schema for that kind.
//  2. ResolvePartials merges included fragments into their including
//     documents and deletes the consumed fragments.
//  3. ResolveExtensions folds every extends chain into a merged full
//     document, depth first with memoization, rejecting cycles.
//  4. Finalize settles remaining enable/disable conflicts inside each
//     document, re-validates everything, and enforces globally unique
//     artifact names.
//
// Conflicts between enable and disable directives never raise errors; the
// reconciler drops the losing entry and logs a warning. All ordering is
// deterministic: stages walk the registry in lexical name order and merge
// lists keep authoring order.
package resolve
