// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates the command and its flags into the application's internal
// configuration, taking defaults from the environment and an optional .env
// file.
package cli
