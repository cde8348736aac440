// Package term renders multiplexed per-task download progress on a
// terminal, plus small presentation helpers (byte formatting, emoji,
// pluralization) for the CLI. It is purely observational; nothing here
// affects control flow.
package term
