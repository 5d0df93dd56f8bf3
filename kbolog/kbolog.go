// Package kbolog wraps log/slog with the handful of debug-level calls
// the saturation loop makes around message emission, so a caller that
// doesn't care about logging never has to touch slog directly.
package kbolog

import "log/slog"

// NewActive logs a rule joining the active set.
func NewActive(id int, lhs, rhs string) {
	slog.Debug("new active rule", "id", id, "lhs", lhs, "rhs", rhs)
}

// NewEquation logs a joinable equation being recorded.
func NewEquation(lhs, rhs string) {
	slog.Debug("recorded joinable equation", "lhs", lhs, "rhs", rhs)
}

// DeleteActive logs a rule retired by interreduction.
func DeleteActive(id int) {
	slog.Debug("retired active rule", "id", id)
}

// SimplifyQueue logs a queue-simplification maintenance pass.
func SimplifyQueue(dropped int) {
	slog.Debug("simplified passive queue", "dropped", dropped)
}

// Interreduce logs an interreduction maintenance pass.
func Interreduce(deleted, updated int) {
	slog.Debug("interreduced active set", "deleted", deleted, "updated", updated)
}

// ProvedGoal logs a solved goal.
func ProvedGoal(name string) {
	slog.Debug("goal proved", "name", name)
}

// Halt logs why complete1 stopped making progress.
func Halt(reason string) {
	slog.Info("saturation loop halted", "reason", reason)
}
