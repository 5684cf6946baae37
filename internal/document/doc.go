// Package document defines the format-agnostic model for firmware build
// documents.
//
// A build document describes one firmware build: which source tree it is
// based on, which PlatformIO environment compiles it, what the produced
// artifact is called on each release channel, and which configuration
// options are enabled or disabled. Documents arrive from storage as Raw
// values, are classified into one of three kinds (full, partial, extended),
// and are rewritten by the resolve package until only schema-valid full
// documents remain.
//
// The model is deliberately decoupled from any storage format. The hcldoc
// and yamldoc packages translate their respective syntaxes into Raw; nothing
// in this package or downstream of it knows how a document was written.
package document
