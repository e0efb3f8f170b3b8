// Package cli is responsible for parsing command-line arguments, reading the
// optional configuration file and environment, validating user input, and
// handling process-level concerns like exit codes. It translates flags into
// the application's internal configuration and runs the requested command.
package cli
