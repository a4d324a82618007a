// Package prompts holds the role and task presets used when sending
// transcripts to a language model, plus the message builder that combines them
// Pure data and templating, no provider calls
package prompts

import (
	"errors"
	"fmt"
	"strings"
)

// Message is a provider-neutral chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles for Message.Role
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Error kinds returned by the preset lookups
var (
	ErrUnknownRole = errors.New("unknown role preset")
	ErrUnknownTask = errors.New("unknown task preset")
)

// Role is a persona with an optional system prompt
type Role struct {
	Name         string
	Description  string
	SystemPrompt string
}

// Task is an instruction template applied to transcript text
// Template must contain exactly one %s where the text goes
type Task struct {
	Name        string
	Description string
	Template    string
}

// Preset names
const (
	RoleResearchAssistant = "research_assistant"
	RoleFinancialAnalyst  = "financial_analyst"

	TaskSummarize      = "summarize_transcript"
	TaskMarketAnalysis = "market_analysis"
)

// ResearchAssistant is the general research persona
func ResearchAssistant() Role {
	return Role{
		Name:        RoleResearchAssistant,
		Description: "General research assistance for various topics",
		SystemPrompt: `You are a skilled research assistant with expertise in analyzing and synthesizing information.

Your responses should be:
- Well-structured and organized
- Focused on key findings and insights
- Supported by evidence from the source material
- Clear and concise
- Objective and unbiased`,
	}
}

// FinancialAnalyst is the investment research persona
func FinancialAnalyst() Role {
	return Role{
		Name:        RoleFinancialAnalyst,
		Description: "Investment research and market analysis specialist",
		SystemPrompt: `You are an experienced financial analyst working at a top hedge fund.

Your responses should be:
- Well-structured and organized
- Focused on key findings and insights
- Supported by evidence from the source material
- Clear and concise
- Objective and unbiased

When analyzing content, consider:
1. Financial metrics and performance
2. Market positioning and competitive advantages
3. Industry trends and market conditions
4. Management strategy and execution
5. Potential risks and opportunities`,
	}
}

// Summarize asks for a direct summary with exact data points
func Summarize() Task {
	return Task{
		Name:        TaskSummarize,
		Description: "Create a concise, specific summary with key data",
		Template: `Provide a direct, specific summary of this transcript. Be concise and get straight to the point.

Guidelines:
1. Start each point with specific information (avoid vague statements)
2. Include exact numbers and data points when mentioned
3. Use precise terms instead of general ones
4. State specific timeframes and dates when given
5. Keep sections focused and brief

Format:
[Key Topic]
- Specific point with exact details
- Precise data or example
- Concrete fact or finding

[Next Topic]
- Continue with specific points...

Content:
%s`,
	}
}

// MarketAnalysis asks for market implications of the content
func MarketAnalysis() Task {
	return Task{
		Name:        TaskMarketAnalysis,
		Description: "Analyze market trends and insights",
		Template: `Analyze this content for key market insights.

Guidelines:
1. Focus on actionable insights and specific data points
2. Identify both short-term and long-term implications
3. Consider market context and broader industry trends
4. Highlight potential risks and opportunities
5. Note any significant metrics or valuation factors

Format:
[Key Topic]
- Specific point with exact details
- Precise data or example
- Concrete fact or finding

[Next Topic]
- Continue with specific points...

Content:
%s`,
	}
}

// CustomRole wraps an arbitrary system prompt as a Role
func CustomRole(name, systemPrompt string) Role {
	return Role{Name: name, Description: "Custom role", SystemPrompt: systemPrompt}
}

// CustomTask wraps an arbitrary instruction as a Task
func CustomTask(name, instruction string) Task {
	return Task{Name: name, Description: "Custom task", Template: instruction + "\n\n%s"}
}

// ParseRole resolves a preset role by name
func ParseRole(name string) (Role, error) {
	switch name {
	case RoleResearchAssistant, "":
		return ResearchAssistant(), nil
	case RoleFinancialAnalyst:
		return FinancialAnalyst(), nil
	default:
		return Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
}

// ParseTask resolves a preset task by name
func ParseTask(name string) (Task, error) {
	switch name {
	case TaskSummarize, "":
		return Summarize(), nil
	case TaskMarketAnalysis:
		return MarketAnalysis(), nil
	default:
		return Task{}, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
}

// Build renders the chat messages for a role, task, and transcript text
func Build(role Role, task Task, text string) []Message {
	msgs := make([]Message, 0, 2)
	if strings.TrimSpace(role.SystemPrompt) != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: role.SystemPrompt})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: fmt.Sprintf(task.Template, text)})
	return msgs
}
