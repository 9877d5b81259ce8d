// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
)

// collect runs a reveal and returns every onUpdate argument in order.
func collect(ctx context.Context, text string, opts Options) []string {
	var got []string
	Run(ctx, text, opts, func(prefix string) {
		got = append(got, prefix)
	})
	return got
}

func TestRunCharMode(t *testing.T) {
	got := collect(context.Background(), "Hi", Options{Mode: ModeChar, StepDelay: 10 * time.Millisecond})

	want := []string{"H", "Hi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("updates = %v, want %v", got, want)
	}
}

func TestRunCharModeMultibyte(t *testing.T) {
	got := collect(context.Background(), "héllo", Options{Mode: ModeChar, StepDelay: time.Millisecond})

	if len(got) != 5 {
		t.Fatalf("step count = %d, want 5 (rune steps, not bytes)", len(got))
	}
	if got[1] != "hé" {
		t.Errorf("step 2 = %q, want %q", got[1], "hé")
	}
	if got[4] != "héllo" {
		t.Errorf("final step = %q, want full text", got[4])
	}
}

func TestRunWordModePreservesWhitespace(t *testing.T) {
	got := collect(context.Background(), "hello  world\n!", Options{Mode: ModeWord, StepDelay: time.Millisecond})

	want := []string{"hello", "hello  ", "hello  world", "hello  world\n", "hello  world\n!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("updates = %v, want %v", got, want)
	}
}

func TestRunEmptyTextCompletesImmediately(t *testing.T) {
	got := collect(context.Background(), "", Options{Mode: ModeChar, StepDelay: time.Millisecond})
	if len(got) != 0 {
		t.Errorf("updates = %v, want none", got)
	}
}

func TestRunReducedMotionSingleStep(t *testing.T) {
	text := "a fairly long reply that would normally animate"
	got := collect(context.Background(), text, Options{Mode: ModeChar, StepDelay: time.Hour, ReducedMotion: true})

	want := []string{text}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("updates = %v, want single full-text step", got)
	}
}

func TestRunAlreadyCancelledEmitsFullTextOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := collect(ctx, "never animated", Options{Mode: ModeChar, StepDelay: time.Hour})

	want := []string{"never animated"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("updates = %v, want exactly one full-text update", got)
	}
}

func TestRunCancelMidFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	text := "cancel me partway through"

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	go func() {
		Run(ctx, text, Options{Mode: ModeChar, StepDelay: 5 * time.Millisecond}, func(prefix string) {
			mu.Lock()
			got = append(got, prefix)
			mu.Unlock()
		})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 {
		t.Fatal("no updates recorded")
	}
	last := got[len(got)-1]
	if last != text {
		t.Errorf("final update = %q, want full text", last)
	}
	// Exactly one full-text update: the cancellation one.
	fullCount := 0
	for _, g := range got {
		if g == text {
			fullCount++
		}
	}
	if fullCount != 1 {
		t.Errorf("full-text update count = %d, want 1", fullCount)
	}
}

func TestRunNaturalCompletionRoundTrip(t *testing.T) {
	text := "short"
	got := collect(context.Background(), text, Options{Mode: ModeChar, StepDelay: time.Millisecond})

	if got[len(got)-1] != text {
		t.Errorf("final update = %q, want %q", got[len(got)-1], text)
	}
	// Every update is a strict extension of the previous one.
	for i := 1; i < len(got); i++ {
		if len(got[i]) <= len(got[i-1]) {
			t.Errorf("step %d did not grow: %q -> %q", i, got[i-1], got[i])
		}
	}
}

func TestRunnerSingleTaskPerMessage(t *testing.T) {
	r := NewRunner()
	text := "some text to reveal slowly"

	started := make(chan struct{})
	firstDone := make(chan struct{})
	go func() {
		close(started)
		r.Reveal(context.Background(), "msg1", text, Options{StepDelay: 10 * time.Millisecond}, func(string) {})
		close(firstDone)
	}()

	<-started
	time.Sleep(20 * time.Millisecond)
	if !r.Active("msg1") {
		t.Fatal("task should be active")
	}

	// Second reveal for the same id cancels the first.
	r.Reveal(context.Background(), "msg1", "x", Options{StepDelay: time.Millisecond}, func(string) {})

	select {
	case <-firstDone:
	case <-time.After(2 * time.Second):
		t.Fatal("first task was not cancelled by the second")
	}
	if r.Active("msg1") {
		t.Error("no task should remain after Reveal returns")
	}
}

func TestRunnerCancel(t *testing.T) {
	r := NewRunner()

	if r.Cancel("missing") {
		t.Error("Cancel of unknown id should return false")
	}

	done := make(chan struct{})
	var mu sync.Mutex
	var last string
	go func() {
		r.Reveal(context.Background(), "msg1", "long enough to be mid-flight", Options{StepDelay: 10 * time.Millisecond}, func(p string) {
			mu.Lock()
			last = p
			mu.Unlock()
		})
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	if !r.Cancel("msg1") {
		t.Error("Cancel of live task should return true")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish after Cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if last != "long enough to be mid-flight" {
		t.Errorf("last update = %q, want full text after cancel", last)
	}
}
