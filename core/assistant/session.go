package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

const (
	greeting     = "Hello! I'm your schedule assistant. How can I help?"
	apologyReply = "Sorry, a temporary error occurred. Please try again later."
)

var ErrEmptyMessage = errors.New("message is empty")

var NowFunc = time.Now // mockable

type (
	Message struct {
		FromUser bool
		Text     string
		At       time.Time
		Action   *Action
	}

	// Responder answers a user message.
	Responder interface {
		Respond(ctx context.Context, message string) (string, error)
	}

	// Notifier is told when a reply confirmed a schedule change.
	Notifier interface {
		TriggerEventUpdate(ctx context.Context) error
	}
)

// Session is a conversation with the assistant.
type Session struct {
	responder Responder
	detector  *MutationDetector
	notifier  Notifier
	log       core.Logger

	mu       sync.RWMutex
	messages []Message
}

func NewSession(responder Responder, detector *MutationDetector, notifier Notifier, logger core.Logger) *Session {
	return &Session{
		responder: responder,
		detector:  detector,
		notifier:  notifier,
		log:       logger,
		messages:  []Message{{Text: greeting, At: NowFunc()}},
	}
}

func (s *Session) append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

// Send sends text to the responder and records the reply. When the reply confirms a
// schedule change, the notifier is triggered.
// On failure an apology is recorded and the error returned.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	text = core.CleanString(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	s.append(Message{FromUser: true, Text: text, At: NowFunc()})

	reply, err := s.responder.Respond(ctx, text)
	if err != nil {
		msg := Message{Text: apologyReply, At: NowFunc()}
		s.append(msg)
		s.log.Error("assistant: responder failed", err)
		return msg, errors.Wrap(err, "asking assistant")
	}

	msg := Message{Text: reply, At: NowFunc()}
	if action, ok := s.detector.Detect(reply); ok {
		msg.Action = &action
		s.log.Info("assistant: schedule changed", map[string]interface{}{"action": action.Kind.String()})
		_ = s.notifier.TriggerEventUpdate(ctx)
	}
	s.append(msg)
	return msg, nil
}
