// Package chat drives the fortune-telling conversation: it owns the
// transcript for the active screen, submits it to the next_question
// endpoint under the active deity, and keeps the in-flight indicators
// honest. At most one request is ever outstanding; that single flag is the
// whole concurrency model.
package chat

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Heipiao/taluo/internal/api"
	chatmodel "github.com/Heipiao/taluo/internal/model/chat"
	authservice "github.com/Heipiao/taluo/internal/service/auth"
	themeservice "github.com/Heipiao/taluo/internal/service/theme"
)

// FallbackReply is appended in place of any failed or malformed response.
// Raw errors never reach the transcript.
const FallbackReply = "抱歉，我暂时无法回应，请稍后再试。"

// UserDisplayName labels the user's own bubbles.
const UserDisplayName = "User"

const defaultFortuneLabel = "占卜"

// fortuneLabels maps the explore screen's category ids to the label woven
// into the synthesized opening message.
var fortuneLabels = map[string]string{
	"1": "每日运势",
	"2": "事业运",
	"3": "感情运",
	"4": "财运",
}

// FortuneLabel resolves a fortune category id, defaulting to 占卜 for ids
// the table does not know.
func FortuneLabel(fortuneTypeID string) string {
	if label, ok := fortuneLabels[fortuneTypeID]; ok {
		return label
	}
	return defaultFortuneLabel
}

// Orchestrator assembles and submits the running dialogue. It is owned by a
// single chat screen instance; the transcript dies with it.
type Orchestrator struct {
	mu           sync.Mutex
	messages     []chatmodel.Message // newest-first, display order
	composing    string
	sending      bool
	remoteTyping bool

	client  *api.Client
	session *authservice.Manager
	binder  *themeservice.Binder
}

// NewOrchestrator wires the orchestrator to its collaborators. Session and
// binder are injected so tests can run against fixtures.
func NewOrchestrator(client *api.Client, session *authservice.Manager, binder *themeservice.Binder) *Orchestrator {
	return &Orchestrator{
		client:  client,
		session: session,
		binder:  binder,
	}
}

// Messages returns the transcript newest-first.
func (o *Orchestrator) Messages() []chatmodel.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]chatmodel.Message(nil), o.messages...)
}

// Composing returns the unsent input text.
func (o *Orchestrator) Composing() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.composing
}

// SetComposing mirrors the input field as the user types.
func (o *Orchestrator) SetComposing(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.composing = text
}

// Sending reports whether a request is in flight.
func (o *Orchestrator) Sending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sending
}

// RemoteTyping reports whether the typing indicator should show.
func (o *Orchestrator) RemoteTyping() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.remoteTyping
}

// ResetTranscript discards the conversation, e.g. when the screen unmounts
// or the deity changes.
func (o *Orchestrator) ResetTranscript() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
}

// SendMessage submits the user's input. Empty input and sends while a
// request is outstanding are silent no-ops: no message is appended and no
// call is made.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	session := o.session.Session()
	if session.User == nil {
		return authservice.ErrNotAuthenticated
	}

	o.mu.Lock()
	if o.sending {
		o.mu.Unlock()
		return nil
	}
	o.composing = ""
	o.appendLocked(chatmodel.RoleUser, text, UserDisplayName)
	o.sending = true
	o.remoteTyping = true
	o.mu.Unlock()

	o.exchange(ctx, session.User.UserID, session.User.Token)
	return nil
}

// StartFortuneSession primes the chat when the screen opens from a fortune
// category: the transcript is cleared and a synthesized opening message is
// submitted on the user's behalf. Unauthenticated sessions make no request;
// the navigation gate redirects to login instead.
func (o *Orchestrator) StartFortuneSession(ctx context.Context, fortuneTypeID string) error {
	session := o.session.Session()
	if session.User == nil {
		return authservice.ErrNotAuthenticated
	}

	opening := "我想了解我的" + FortuneLabel(fortuneTypeID)

	o.mu.Lock()
	if o.sending {
		o.mu.Unlock()
		return nil
	}
	o.messages = nil
	o.appendLocked(chatmodel.RoleUser, opening, UserDisplayName)
	o.sending = true
	o.remoteTyping = true
	o.mu.Unlock()

	o.exchange(ctx, session.User.UserID, session.User.Token)
	return nil
}

// exchange performs one request/response cycle against the transcript as it
// stands. The in-flight flags are cleared on every path out.
func (o *Orchestrator) exchange(ctx context.Context, userID, token string) {
	defer func() {
		o.mu.Lock()
		o.sending = false
		o.remoteTyping = false
		o.mu.Unlock()
	}()

	active := o.binder.CurrentDeity()

	o.mu.Lock()
	transcript := make([]chatmodel.Message, len(o.messages))
	for i, msg := range o.messages {
		transcript[len(o.messages)-1-i] = msg // oldest-first for the wire
	}
	o.mu.Unlock()

	answer, err := o.client.NextQuestion(ctx, token, api.NextQuestionRequest{
		UserID:   userID,
		Role:     active.Name,
		Task:     active.PrimaryTag().Name,
		Messages: chatmodel.ToWire(transcript),
	})
	if err != nil {
		log.Printf("[chat] next question failed: %v", err)
		answer = FallbackReply
	}

	o.mu.Lock()
	o.appendLocked(chatmodel.RoleAssistant, answer, active.Name)
	o.mu.Unlock()
}

func (o *Orchestrator) appendLocked(role, text, senderDisplay string) {
	message := chatmodel.Message{
		ID:            uuid.NewString(),
		Role:          role,
		Text:          text,
		SenderDisplay: senderDisplay,
		CreatedAt:     time.Now().UTC(),
	}
	o.messages = append([]chatmodel.Message{message}, o.messages...)
}
