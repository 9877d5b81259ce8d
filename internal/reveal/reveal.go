// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal implements the typewriter-style progressive disclosure
// of assistant replies. The full reply text is already known when a
// reveal starts; the engine only controls how fast it appears on screen.
package reveal

import (
	"context"
	"regexp"
	"time"
)

// =============================================================================
// MODES AND OPTIONS
// =============================================================================

// Mode selects the reveal granularity.
type Mode string

const (
	// ModeChar reveals one character per step.
	ModeChar Mode = "char"
	// ModeWord reveals one token (word or whitespace run) per step.
	ModeWord Mode = "word"
)

// Options configures a reveal run.
type Options struct {
	// Mode is the reveal granularity (default: ModeChar).
	Mode Mode

	// StepDelay is the pause between steps (must be positive;
	// a zero value falls back to DefaultCharDelay).
	StepDelay time.Duration

	// ReducedMotion disables the animation entirely: the full text is
	// shown in a single step. This is an accessibility requirement,
	// not an optimization.
	ReducedMotion bool
}

// Default step delays, matching the shipped UI timings.
const (
	DefaultCharDelay = 25 * time.Millisecond
	DefaultWordDelay = 180 * time.Millisecond
)

// tokenPattern splits text into words and whitespace runs so that word
// mode re-assembles the original text byte for byte.
var tokenPattern = regexp.MustCompile(`\S+|\s+`)

// =============================================================================
// REVEAL RUN
// =============================================================================

// Run reveals fullText step by step, invoking onUpdate with the growing
// prefix after each step. It blocks until the text is fully revealed or
// ctx is cancelled.
//
// The cancellation token is checked at the top of every step, including
// before the first delay. A cancelled run invokes onUpdate(fullText)
// exactly once and returns: cancelling always shows the final text,
// never a stuck partial string.
//
// An empty fullText completes immediately with no callback invocations.
func Run(ctx context.Context, fullText string, opts Options, onUpdate func(string)) {
	if fullText == "" {
		return
	}
	if opts.ReducedMotion {
		onUpdate(fullText)
		return
	}
	if opts.StepDelay <= 0 {
		opts.StepDelay = DefaultCharDelay
	}

	steps := buildSteps(fullText, opts.Mode)
	for i, prefix := range steps {
		if ctx.Err() != nil {
			onUpdate(fullText)
			return
		}
		onUpdate(prefix)

		// The final step is the full text; no trailing delay.
		if i == len(steps)-1 {
			return
		}

		select {
		case <-ctx.Done():
			onUpdate(fullText)
			return
		case <-time.After(opts.StepDelay):
		}
	}
}

// buildSteps precomputes every prefix that will be emitted.
// Char mode steps by runes so multi-byte text is never split
// mid-character.
func buildSteps(fullText string, mode Mode) []string {
	if mode == ModeWord {
		tokens := tokenPattern.FindAllString(fullText, -1)
		steps := make([]string, 0, len(tokens))
		acc := ""
		for _, tok := range tokens {
			acc += tok
			steps = append(steps, acc)
		}
		return steps
	}

	runes := []rune(fullText)
	steps := make([]string, 0, len(runes))
	for i := range runes {
		steps = append(steps, string(runes[:i+1]))
	}
	return steps
}
