// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/reveal"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/session"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
)

// fakeService is a scripted backend.
type fakeService struct {
	mu     sync.Mutex
	calls  []*chatapi.Request
	reply  *chatapi.Reply
	err    error
	delay  time.Duration
	onCall func()
}

func (f *fakeService) Send(ctx context.Context, req *chatapi.Request) (*chatapi.Reply, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	cb := f.onCall
	reply, err := f.reply, f.err
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return reply, err
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestOrchestrator(t *testing.T, svc Service) *Orchestrator {
	t.Helper()
	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	registry := session.NewRegistry(store)
	// Instant reveal keeps most tests fast and deterministic.
	return New(registry, svc, reveal.Options{Mode: reveal.ModeChar, StepDelay: time.Millisecond, ReducedMotion: true})
}

func TestSendUserMessageAppendsUserThenAssistant(t *testing.T) {
	svc := &fakeService{reply: &chatapi.Reply{Text: "the answer", Source: "services"}}
	o := newTestOrchestrator(t, svc)

	o.SendUserMessage(context.Background(), "  what services?  ", nil)

	msgs := o.Registry().Current().Messages
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "what services?" {
		t.Errorf("first message = %+v, want trimmed user message", msgs[0])
	}
	if msgs[1].Role != model.RoleAssistant || msgs[1].Content != "the answer" {
		t.Errorf("second message = %+v, want assistant reply", msgs[1])
	}
	if msgs[1].Source != "services" {
		t.Errorf("Source = %q, want passthrough", msgs[1].Source)
	}
	if !msgs[1].IsRevealed {
		t.Error("assistant message should be revealed once SendUserMessage returns")
	}
	if o.Error() != "" {
		t.Errorf("error banner = %q, want empty", o.Error())
	}
}

func TestSendUserMessageDerivesTitle(t *testing.T) {
	svc := &fakeService{reply: &chatapi.Reply{Text: "ok"}}
	o := newTestOrchestrator(t, svc)

	o.SendUserMessage(context.Background(), "Hello world, this message is over thirty characters", nil)

	want := "Hello world, this message is o..."
	if got := o.Registry().Current().Title; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
}

func TestSendUserMessageEmptyInputIsSilentNoOp(t *testing.T) {
	svc := &fakeService{reply: &chatapi.Reply{Text: "never"}}
	o := newTestOrchestrator(t, svc)

	o.SendUserMessage(context.Background(), "   ", nil)

	if svc.callCount() != 0 {
		t.Error("no service call may happen for empty input")
	}
	if len(o.Registry().Current().Messages) != 0 {
		t.Error("no session mutation may happen for empty input")
	}
	if o.Error() != "" {
		t.Error("empty input is silent, not surfaced")
	}
}

func TestSendUserMessageServiceFailure(t *testing.T) {
	svc := &fakeService{err: &chatapi.ClientError{Type: chatapi.ErrTypeConnection, Message: "could not reach the assistant service"}}
	o := newTestOrchestrator(t, svc)

	o.SendUserMessage(context.Background(), "hello", nil)

	msgs := o.Registry().Current().Messages
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want just the user message", len(msgs))
	}
	if o.Error() != "could not reach the assistant service" {
		t.Errorf("error banner = %q", o.Error())
	}
	if o.Typing() {
		t.Error("typing flag must clear after a failed call")
	}

	o.ClearError()
	if o.Error() != "" {
		t.Error("ClearError should dismiss the banner")
	}
}

func TestTypingCoversServiceCallOnly(t *testing.T) {
	typingDuring := make(chan bool, 1)
	svc := &fakeService{reply: &chatapi.Reply{Text: "slow answer"}, delay: 30 * time.Millisecond}
	o := newTestOrchestrator(t, svc)
	svc.onCall = func() { typingDuring <- o.Typing() }

	o.SendUserMessage(context.Background(), "hi", nil)

	if got := <-typingDuring; !got {
		t.Error("typing should be true while the service call is in flight")
	}
	if o.Typing() {
		t.Error("typing should be false after SendUserMessage returns")
	}
}

func TestRevealProgressUpdatesDisplayedContent(t *testing.T) {
	svc := &fakeService{reply: &chatapi.Reply{Text: "Hi"}}
	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	registry := session.NewRegistry(store)
	o := New(registry, svc, reveal.Options{Mode: reveal.ModeChar, StepDelay: 5 * time.Millisecond})

	o.SendUserMessage(context.Background(), "hello", nil)

	asst := registry.Current().Messages[1]
	if !asst.IsRevealed {
		t.Error("assistant message should end revealed")
	}
	if asst.DisplayedText() != "Hi" {
		t.Errorf("DisplayedText = %q, want full content", asst.DisplayedText())
	}
}

func TestSkipRevealCompletesInFlightReveal(t *testing.T) {
	longReply := "a reply long enough that the reveal is still running when we skip it"
	svc := &fakeService{reply: &chatapi.Reply{Text: longReply}}
	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	registry := session.NewRegistry(store)
	o := New(registry, svc, reveal.Options{Mode: reveal.ModeChar, StepDelay: 20 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		o.SendUserMessage(context.Background(), "q", nil)
		close(done)
	}()

	// Wait until the assistant message exists and is mid-reveal.
	var asstID string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cur := registry.Current(); cur != nil && len(cur.Messages) == 2 {
			asstID = cur.Messages[1].ID
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if asstID == "" {
		t.Fatal("assistant message never appeared")
	}

	o.SkipReveal(asstID)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SendUserMessage did not return after skip")
	}

	asst := registry.Current().Messages[1]
	if !asst.IsRevealed {
		t.Error("message should be revealed after skip")
	}
	if asst.DisplayedText() != longReply {
		t.Errorf("DisplayedText = %q, want full reply", asst.DisplayedText())
	}
}

func TestSkipRevealIdempotentOnRevealedMessage(t *testing.T) {
	svc := &fakeService{reply: &chatapi.Reply{Text: "done already"}}
	o := newTestOrchestrator(t, svc)

	o.SendUserMessage(context.Background(), "q", nil)
	before := *o.Registry().Current().Messages[1]

	o.SkipReveal(before.ID)

	after := *o.Registry().Current().Messages[1]
	if after != before {
		t.Errorf("message changed by redundant skip: %+v -> %+v", before, after)
	}
}

func TestTranscriptReadsSafeDuringReveal(t *testing.T) {
	longReply := "a reply long enough that the reveal is still in flight while the view keeps re-rendering the transcript"
	svc := &fakeService{reply: &chatapi.Reply{Text: longReply}}
	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	registry := session.NewRegistry(store)
	o := New(registry, svc, reveal.Options{Mode: reveal.ModeChar, StepDelay: time.Millisecond})

	done := make(chan struct{})
	go func() {
		o.SendUserMessage(context.Background(), "q", nil)
		close(done)
	}()

	// Read the transcript the way the view does, the whole time the
	// reveal goroutine is writing. Run under the race detector this
	// fails if a read ever shares memory with an in-flight write.
	for {
		if cur := registry.Current(); cur != nil {
			for _, m := range cur.Messages {
				_ = m.DisplayedText()
				_ = m.Revealing()
			}
		}
		select {
		case <-done:
			asst := registry.Current().Messages[1]
			if !asst.IsRevealed || asst.DisplayedText() != longReply {
				t.Errorf("DisplayedText = %q, want full reply", asst.DisplayedText())
			}
			return
		default:
		}
	}
}

func TestSkipRevealUnknownMessageIsNoOp(t *testing.T) {
	svc := &fakeService{reply: &chatapi.Reply{Text: "x"}}
	o := newTestOrchestrator(t, svc)
	o.SkipReveal("msg_unknown") // must not panic or mutate anything
}

func TestNewMessageAutoSkipsPriorReveal(t *testing.T) {
	first := "first reply, long enough to still be revealing when the next send arrives"
	svc := &fakeService{reply: &chatapi.Reply{Text: first}}
	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	registry := session.NewRegistry(store)
	o := New(registry, svc, reveal.Options{Mode: reveal.ModeChar, StepDelay: 20 * time.Millisecond})

	firstDone := make(chan struct{})
	go func() {
		o.SendUserMessage(context.Background(), "q1", nil)
		close(firstDone)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cur := registry.Current(); cur != nil && cur.RevealingMessage() != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	svc.mu.Lock()
	svc.reply = &chatapi.Reply{Text: "second"}
	svc.mu.Unlock()

	o.SendUserMessage(context.Background(), "q2", nil)
	<-firstDone

	msgs := registry.Current().Messages
	if len(msgs) != 4 {
		t.Fatalf("message count = %d, want 4", len(msgs))
	}
	if !msgs[1].IsRevealed || msgs[1].DisplayedText() != first {
		t.Error("prior reveal should be auto-skipped to full text")
	}
	if msgs[2].Content != "q2" {
		t.Errorf("messages out of order: %q", msgs[2].Content)
	}
}
