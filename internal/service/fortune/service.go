// Package fortune generates deity answers for the local dev server. With
// Ark credentials configured it runs a real chat model behind the deity's
// system prompt; without them it falls back to canned replies so the client
// can still be exercised end to end.
package fortune

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Heipiao/taluo/internal/config"
	chatmodel "github.com/Heipiao/taluo/internal/model/chat"
	"github.com/Heipiao/taluo/internal/model/deity"
)

// Service answers fortune questions in a deity's voice.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt/model chain. cfg may be disabled; the
// service then serves canned replies only.
func NewService(ctx context.Context, cfg config.ArkConfig) (*Service, error) {
	if !cfg.Enabled() {
		log.Println("[fortune] Ark 凭证未配置，使用预设回答")
		return &Service{}, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Answer produces the deity's next reply for a transcript given
// oldest-first. The last user message becomes the query; everything before
// it is history.
func (s *Service) Answer(ctx context.Context, d deity.Deity, task string, messages []chatmodel.WireMessage) (string, error) {
	query := ""
	history := messages
	if n := len(messages); n > 0 && messages[n-1].Role == chatmodel.RoleUser {
		query = messages[n-1].Content
		history = messages[:n-1]
	}

	if s.chain == nil {
		return cannedReply(d), nil
	}

	input := map[string]any{
		"system":  BuildSystemPrompt(d, task),
		"history": buildHistoryMessages(history),
		"query":   query,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("run fortune chain: %w", err)
	}

	log.Printf("[fortune] generated answer, deity=%s task=%s length=%d", d.ID, task, len(response.Content))
	return response.Content, nil
}

// BuildSystemPrompt frames the model as the given deity working the given
// fortune task.
func BuildSystemPrompt(d deity.Deity, task string) string {
	tags := ""
	for i, tag := range d.Tags {
		if i > 0 {
			tags += "、"
		}
		tags += tag.Name
	}
	if task == "" {
		task = "占卜"
	}

	return fmt.Sprintf(`你是%s，一位中国民间信仰中的神明。%s

你的神职范围：%s。
用户此次求问的主题：%s。

请始终以%s的口吻回应，引用传统意象，给出温和而具体的指引。回答保持在三句话以内，不要跳出角色。`,
		d.Name, d.Description, tags, task, d.Name)
}

func buildHistoryMessages(messages []chatmodel.WireMessage) []*schema.Message {
	const historyLimit = 10

	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chatmodel.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chatmodel.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}

// cannedReply keeps the dev loop alive without model credentials.
func cannedReply(d deity.Deity) string {
	switch d.ID {
	case "guanyin":
		return "心诚则灵。近来纵有烦忧，亦如浮云过眼，守住本心，平安自来。"
	case "yuelao":
		return "红线已在掌中，缘分自有定数。多出门走动，桃花将至，不必强求。"
	case "caishen":
		return "财帛动人心，更须稳字当头。近期正财平稳，偏财勿贪，积少成多。"
	default:
		return "签文已出，静心体会，自有所悟。"
	}
}
