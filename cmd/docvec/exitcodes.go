package main

// Exit codes returned by the docvec CLI.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)
