// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle that turns a pipeline
// into a workflow on disk, decoupled from the CLI that drives it.
package app
