package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Heipiao/taluo/internal/api"
	chatmodel "github.com/Heipiao/taluo/internal/model/chat"
	"github.com/Heipiao/taluo/internal/model/deity"
	authservice "github.com/Heipiao/taluo/internal/service/auth"
	chatservice "github.com/Heipiao/taluo/internal/service/chat"
	themeservice "github.com/Heipiao/taluo/internal/service/theme"
	"github.com/Heipiao/taluo/internal/store"
)

// fixture wires an orchestrator to a mock backend with a logged-in session.
type fixture struct {
	orchestrator *chatservice.Orchestrator
	binder       *themeservice.Binder
	session      *authservice.Manager
	requests     *atomic.Int32
}

func newFixture(t *testing.T, chatHandler http.HandlerFunc) *fixture {
	t.Helper()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/user/login":
			json.NewEncoder(w).Encode(api.LoginResponse{Token: "t1", UserID: "u1", Username: "Al"})
		case "/biz/core/next_question":
			requests.Add(1)
			chatHandler(w, r)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, 5*time.Second)
	creds := store.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	session := authservice.NewManager(client, creds)
	if err := session.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("fixture login: %v", err)
	}

	binder := themeservice.NewBinder(deity.NewMemoryStore(deity.Seed()))
	return &fixture{
		orchestrator: chatservice.NewOrchestrator(client, session, binder),
		binder:       binder,
		session:      session,
		requests:     &requests,
	}
}

func answerWith(answer string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"question": map[string]any{"answer": answer}},
		})
	}
}

func TestSendMessageAppendsUserThenAssistant(t *testing.T) {
	fx := newFixture(t, answerWith("hi there"))

	if err := fx.orchestrator.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}

	messages := fx.orchestrator.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	// Newest-first: assistant reply leads, user message follows.
	if messages[0].Role != chatmodel.RoleAssistant || messages[0].Text != "hi there" {
		t.Fatalf("unexpected assistant message: %+v", messages[0])
	}
	if messages[1].Role != chatmodel.RoleUser || messages[1].Text != "hello" {
		t.Fatalf("unexpected user message: %+v", messages[1])
	}
	if messages[0].SenderDisplay != "观音" {
		t.Fatalf("assistant message should carry the active deity name, got %q", messages[0].SenderDisplay)
	}
	if fx.orchestrator.Sending() || fx.orchestrator.RemoteTyping() {
		t.Fatal("indicators must reset after completion")
	}
}

func TestSendMessageServerErrorAppendsFallback(t *testing.T) {
	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := fx.orchestrator.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}

	messages := fx.orchestrator.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != chatservice.FallbackReply {
		t.Fatalf("expected fallback reply, got %q", messages[0].Text)
	}
	if fx.orchestrator.Sending() {
		t.Fatal("failure must not leave sending set")
	}
}

func TestSendMessageMalformedBodyIsFailure(t *testing.T) {
	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{}}`))
	})

	if err := fx.orchestrator.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if got := fx.orchestrator.Messages()[0].Text; got != chatservice.FallbackReply {
		t.Fatalf("malformed body should fall back, got %q", got)
	}
}

func TestSendMessageEmptyInputIsNoop(t *testing.T) {
	fx := newFixture(t, answerWith("unused"))

	if err := fx.orchestrator.SendMessage(context.Background(), "   "); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if len(fx.orchestrator.Messages()) != 0 {
		t.Fatal("blank input must append nothing")
	}
	if fx.requests.Load() != 0 {
		t.Fatal("blank input must not hit the network")
	}
}

func TestSendMessageWhileInFlightIsNoop(t *testing.T) {
	release := make(chan struct{})
	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		answerWith("done")(w, r)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		fx.orchestrator.SendMessage(context.Background(), "first")
	}()

	for !fx.orchestrator.Sending() {
		time.Sleep(time.Millisecond)
	}

	if err := fx.orchestrator.SendMessage(context.Background(), "second"); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if got := len(fx.orchestrator.Messages()); got != 1 {
		t.Fatalf("in-flight send must append nothing, transcript has %d messages", got)
	}

	close(release)
	<-done

	if fx.requests.Load() != 1 {
		t.Fatalf("expected a single request, got %d", fx.requests.Load())
	}
	if fx.orchestrator.Sending() || fx.orchestrator.RemoteTyping() {
		t.Fatal("indicators must reset after the first send completes")
	}
}

func TestSendMessageClearsComposing(t *testing.T) {
	fx := newFixture(t, answerWith("ok"))

	fx.orchestrator.SetComposing("hello")
	if err := fx.orchestrator.SendMessage(context.Background(), fx.orchestrator.Composing()); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if fx.orchestrator.Composing() != "" {
		t.Fatal("composing text must clear on send")
	}
}

func TestSendMessageTranscriptOrderOnWire(t *testing.T) {
	var wire []chatmodel.WireMessage
	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var req api.NextQuestionRequest
		json.NewDecoder(r.Body).Decode(&req)
		wire = req.Messages
		answerWith("回答")(w, r)
	})

	fx.orchestrator.SendMessage(context.Background(), "第一问")
	fx.orchestrator.SendMessage(context.Background(), "第二问")

	if len(wire) != 3 {
		t.Fatalf("expected 3 wire messages, got %d", len(wire))
	}
	// Oldest-first: first question, its answer, then the new question.
	if wire[0].Content != "第一问" || wire[1].Content != "回答" || wire[2].Content != "第二问" {
		t.Fatalf("wire transcript out of order: %+v", wire)
	}
	if wire[1].Role != chatmodel.RoleAssistant {
		t.Fatalf("expected assistant role in history, got %s", wire[1].Role)
	}
}

func TestStartFortuneSessionSynthesizesOpening(t *testing.T) {
	var req api.NextQuestionRequest
	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		answerWith("感情运势上上签").ServeHTTP(w, r)
	})

	// Pre-existing transcript must be discarded.
	fx.orchestrator.SendMessage(context.Background(), "旧对话")

	if err := fx.orchestrator.StartFortuneSession(context.Background(), "3"); err != nil {
		t.Fatalf("StartFortuneSession err: %v", err)
	}

	messages := fx.orchestrator.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected cleared transcript with 2 messages, got %d", len(messages))
	}
	if messages[1].Text != "我想了解我的感情运" {
		t.Fatalf("unexpected opening message %q", messages[1].Text)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "我想了解我的感情运" {
		t.Fatalf("request must be seeded with exactly the opening message: %+v", req.Messages)
	}
}

func TestStartFortuneSessionUnknownIDDefaults(t *testing.T) {
	fx := newFixture(t, answerWith("签到"))

	if err := fx.orchestrator.StartFortuneSession(context.Background(), "42"); err != nil {
		t.Fatalf("StartFortuneSession err: %v", err)
	}
	messages := fx.orchestrator.Messages()
	if messages[1].Text != "我想了解我的占卜" {
		t.Fatalf("unknown id should use the default label, got %q", messages[1].Text)
	}
}

func TestStartFortuneSessionRequiresAuth(t *testing.T) {
	fx := newFixture(t, answerWith("unused"))
	fx.session.Logout(context.Background())

	err := fx.orchestrator.StartFortuneSession(context.Background(), "1")
	if err != authservice.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if fx.requests.Load() != 0 {
		t.Fatal("unauthenticated session must not reach the network")
	}
}

func TestPersonaBindingFollowsSelection(t *testing.T) {
	var req api.NextQuestionRequest
	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		answerWith("财源滚滚").ServeHTTP(w, r)
	})

	fx.binder.SelectDeity(2) // 财神
	fx.orchestrator.SendMessage(context.Background(), "我的财运如何")

	if req.Role != "财神" || req.Task != "财运" {
		t.Fatalf("request not bound to selected deity: role=%s task=%s", req.Role, req.Task)
	}
}

func TestFortuneLabelTable(t *testing.T) {
	cases := map[string]string{
		"1":  "每日运势",
		"2":  "事业运",
		"3":  "感情运",
		"4":  "财运",
		"":   "占卜",
		"99": "占卜",
	}
	for id, want := range cases {
		if got := chatservice.FortuneLabel(id); got != want {
			t.Fatalf("FortuneLabel(%q) = %q, want %q", id, got, want)
		}
	}
}
