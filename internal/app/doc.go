// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle that turns a directory of
// build documents into an encoded build plan, decoupled from any specific
// entrypoint like a CLI.
package app
