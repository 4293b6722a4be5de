package assistant

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/tests"
)

type responderMock struct {
	reply string
	err   error
	got   []string
}

func (r *responderMock) Respond(_ context.Context, message string) (string, error) {
	r.got = append(r.got, message)
	return r.reply, r.err
}

type notifierMock struct{ calls int }

func (n *notifierMock) TriggerEventUpdate(context.Context) error {
	n.calls++
	return nil
}

func TestSessionSend(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		reply       string
		respErr     error
		wantErr     bool
		wantText    string
		wantNotify  int
		wantHistory int
	}{
		{name: "plain answer", input: "what's on today?", reply: "Nothing today.", wantText: "Nothing today.", wantHistory: 3},
		{name: "mutation", input: "add Exam on 2024-03-14", reply: "✅ 일정이 성공적으로 등록되었습니다!", wantText: "✅ 일정이 성공적으로 등록되었습니다!", wantNotify: 1, wantHistory: 3},
		{name: "responder failure", input: "hi", respErr: errors.New("timeout"), wantErr: true, wantText: apologyReply, wantHistory: 3},
		{name: "empty message", input: "   ", wantErr: true, wantHistory: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responder := &responderMock{reply: tt.reply, err: tt.respErr}
			notifier := &notifierMock{}
			sess := NewSession(responder, NewMutationDetector(testPhrases, 0.85), notifier, testutil.NewLoggerMock())

			msg, err := sess.Send(context.Background(), tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantText, msg.Text)
			assert.Equal(t, tt.wantNotify, notifier.calls)
			assert.Len(t, sess.Messages(), tt.wantHistory)
			if tt.wantNotify > 0 {
				require.NotNil(t, msg.Action)
				assert.Equal(t, ActionCreated, msg.Action.Kind)
			}
		})
	}
}
