// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the command lifecycle that loads documents,
// runs the validation engine and writes results, decoupled from any specific
// entrypoint like a CLI.
package app
