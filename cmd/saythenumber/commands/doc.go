// Package commands defines the saythenumber CLI and wires dependencies for subcommands.
//
// Commands
//
//   - (none)   Interactive terminal UI
//   - serve    HTTP API over the same submission state
//   - say      Normalize, submit once and print the word form
//   - watch    Print finished attempts published to Kafka
//
// # Implementation
//
// The root command loads configuration and builds the logger before any
// subcommand runs. Each command then assembles the conversion client, the
// optional Redis cache and the orchestrator with its observers (history,
// metrics, optional Kafka publisher).
package commands
