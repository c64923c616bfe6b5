// Package errors provides standardized error handling patterns for ProdCon components.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (contract or validation violation,
// non-retryable), and Fatal (unrecoverable, stop processing).
//
// In this codebase the Invalid class carries the weight: inserting into a
// closed buffer, constructing a buffer with a non-positive capacity, or
// running a simulation from a malformed configuration are all contract
// violations that are fatal to the immediate caller path but are caught and
// recorded by the enclosing worker so the overall run still completes.
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if closed {
//	    return errors.ErrBufferClosed
//	}
//
// Wrap errors with context for debugging:
//
//	if err := buf.Put(ctx, item); err != nil {
//	    return errors.Wrap(err, "Producer", "Run", "item insert")
//	}
//
// Check classification to decide how to react:
//
//	if errors.IsInvalid(err) {
//	    // Contract violation: record it and stop this worker's loop.
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// # Timeouts Are Not Failures
//
// Deadline expiry on a blocking buffer operation is an ordinary, expected
// outcome signaled as context.DeadlineExceeded. Callers branch on it
// explicitly; it classifies as Transient and is never wrapped as Invalid
// or Fatal anywhere in the system.
package errors
