package adapters

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	ports "github.com/loanworks-dev/lpchat/lpchat/chat/ports"
)

// AzureProviderConfig carries the environment-supplied Azure OpenAI settings.
type AzureProviderConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

// AzureProvider implements ports.Provider against an Azure OpenAI chat
// completions deployment.
type AzureProvider struct {
	client     *openai.Client
	deployment string
}

// NewAzureProvider builds the provider. Authentication failures surface on
// the first Complete call, not here.
func NewAzureProvider(cfg AzureProviderConfig) *AzureProvider {
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		clientCfg.APIVersion = cfg.APIVersion
	}

	return &AzureProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: cfg.Deployment,
	}
}

// Complete sends the assembled message list and returns the single best
// completion text. Any provider failure is returned as an error for the
// orchestrator to convert into a user-visible notice.
func (p *AzureProvider) Complete(ctx context.Context, turns []ports.Turn, opts ports.Options) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    apiRole(t.Role),
			Content: t.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.deployment,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// apiRole maps the closed role set onto the wire names. The switch is
// exhaustive over ports.Role.
func apiRole(r ports.Role) string {
	switch r {
	case ports.RoleSystem:
		return openai.ChatMessageRoleSystem
	case ports.RoleUser:
		return openai.ChatMessageRoleUser
	case ports.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	}
	return r.String()
}

var _ ports.Provider = (*AzureProvider)(nil)
