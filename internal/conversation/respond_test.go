package conversation_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/megachat/megachat/internal/conversation"
	"github.com/megachat/megachat/internal/persist"
	"github.com/megachat/megachat/internal/responder"
	"github.com/megachat/megachat/internal/responder/respondertest"
	"github.com/megachat/megachat/pkg/message"
)

func newRespondingStore(t *testing.T, mock *respondertest.MockResponder, opts conversation.Options) *conversation.Store {
	t.Helper()
	opts.DeliveredDelay = testDeliveredDelay
	opts.ReadDelay = testReadDelay
	s := conversation.New("c-resp", persist.NewMemoryAdapter(), mock, testLogger(t), opts)
	t.Cleanup(s.Close)
	return s
}

func TestResponderReplyAppended(t *testing.T) {
	t.Parallel()

	mock := &respondertest.MockResponder{
		ReplyFunc: func(_ context.Context, req responder.Request) (string, error) {
			return "echo: " + req.Text, nil
		},
	}
	s := newRespondingStore(t, mock, conversation.Options{NoGreeting: true})

	if _, err := s.Send("hello there", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	waitFor(t, func() bool { return s.Len() == 2 }, "assistant reply appended")

	msgs := s.Messages()
	reply := msgs[1]
	if reply.Sender != message.SenderAssistant {
		t.Errorf("reply sender = %q, want assistant", reply.Sender)
	}
	if reply.Text != "echo: hello there" {
		t.Errorf("reply text = %q", reply.Text)
	}
	if reply.Status != message.StatusRead {
		t.Errorf("reply status = %q, want read", reply.Status)
	}

	waitFor(t, func() bool { return !s.Responding() }, "responding flag cleared")
}

func TestResponderFailureIsSilent(t *testing.T) {
	t.Parallel()

	mock := &respondertest.MockResponder{
		ReplyFunc: func(context.Context, responder.Request) (string, error) {
			return "", responder.ErrUnavailable
		},
	}
	s := newRespondingStore(t, mock, conversation.Options{NoGreeting: true})

	sent, err := s.Send("anyone home?", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	waitFor(t, func() bool { return mock.Calls() == 1 && !s.Responding() }, "call finished")

	// No assistant message, no error bubble: just the original user message.
	if s.Len() != 1 {
		t.Fatalf("log has %d messages after responder failure, want 1", s.Len())
	}
	if _, err := s.Get(sent.ID); err != nil {
		t.Error("user message lost after responder failure")
	}
}

func TestRespondingFlag(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	mock := &respondertest.MockResponder{
		ReplyFunc: func(context.Context, responder.Request) (string, error) {
			<-release
			return "done", nil
		},
	}
	s := newRespondingStore(t, mock, conversation.Options{NoGreeting: true})

	if _, err := s.Send("thinking...", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	waitFor(t, s.Responding, "responding flag set while call in flight")
	close(release)
	waitFor(t, func() bool { return !s.Responding() }, "responding flag cleared")
	waitFor(t, func() bool { return s.Len() == 2 }, "reply appended")
}

func TestLateReplyDiscardedAfterDelete(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	mock := &respondertest.MockResponder{
		ReplyFunc: func(context.Context, responder.Request) (string, error) {
			<-release
			return "too late", nil
		},
	}
	s := newRespondingStore(t, mock, conversation.Options{NoGreeting: true})

	sent, err := s.Send("delete me quick", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitFor(t, s.Responding, "call in flight")

	if err := s.Delete(sent.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	close(release)

	waitFor(t, func() bool { return !s.Responding() }, "call finished")
	if s.Len() != 0 {
		t.Fatalf("log has %d messages, want 0: late reply must be discarded", s.Len())
	}
}

func TestResponderTailCapped(t *testing.T) {
	t.Parallel()

	mock := &respondertest.MockResponder{
		ReplyFunc: func(context.Context, responder.Request) (string, error) {
			return "", responder.ErrUnavailable
		},
	}
	s := newRespondingStore(t, mock, conversation.Options{NoGreeting: true, HistoryLimit: 10})

	// Build up more history than the cap, with a system message mixed in.
	for i := 0; i < 14; i++ {
		if _, err := s.Send("filler "+strconv.Itoa(i), nil); err != nil {
			t.Fatalf("Send: %v", err)
		}
		waitFor(t, func() bool { return !s.Responding() }, "call settled")
	}
	if _, err := s.CreateGroup("g", []string{"u1"}); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if _, err := s.Send("the final question", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitFor(t, func() bool { return !s.Responding() }, "final call settled")

	req := mock.LastRequest()
	if req.Text != "the final question" {
		t.Errorf("request text = %q", req.Text)
	}
	if len(req.History) > 10 {
		t.Errorf("history tail has %d turns, want at most 10", len(req.History))
	}
	for _, turn := range req.History {
		if turn.Role != responder.RoleUser && turn.Role != responder.RoleAssistant {
			t.Errorf("system turn leaked into responder tail: %+v", turn)
		}
	}
	// The tail must not include the message being sent.
	if len(req.History) > 0 && req.History[len(req.History)-1].Text == "the final question" {
		t.Error("new message duplicated into the history tail")
	}
}

func TestAttachmentSendSkipsResponder(t *testing.T) {
	t.Parallel()

	mock := &respondertest.MockResponder{
		ReplyFunc: func(context.Context, responder.Request) (string, error) {
			return "should never happen", nil
		},
	}
	s := newRespondingStore(t, mock, conversation.Options{NoGreeting: true})

	_, err := s.SendAttachment("Sent Gallery", message.Attachment{
		Type: message.AttachmentImage, URL: "#", Name: "Gallery Attachment",
	})
	if err != nil {
		t.Fatalf("SendAttachment: %v", err)
	}

	if mock.Calls() != 0 {
		t.Errorf("responder called %d times for an attachment send, want 0", mock.Calls())
	}
}

func TestNilResponder(t *testing.T) {
	t.Parallel()

	s := newStore(t, conversation.Options{NoGreeting: true})
	if _, err := s.Send("talking to nobody", nil); err != nil {
		t.Fatalf("Send without responder: %v", err)
	}
	if s.Responding() {
		t.Error("responding flag set with no responder configured")
	}
}

func TestResponderErrorTypes(t *testing.T) {
	t.Parallel()

	// The store treats every responder error identically; this just pins
	// the sentinel values down as distinct.
	if errors.Is(responder.ErrRateLimit, responder.ErrUnavailable) {
		t.Error("sentinel errors must be distinct")
	}
}
