// Package tokenbudget allocates a bounded model context window across
// conversation history and retrieved context. All functions are pure and
// never fail: budgets that cannot fit the mandatory minimum still return it.
package tokenbudget

import "strings"

const (
	// CharsPerToken is the conservative estimation ratio.
	CharsPerToken = 4

	// MessageOverhead approximates per-message role framing cost.
	MessageOverhead = 4

	// DefaultMinMessages is the number of most recent messages always kept.
	DefaultMinMessages = 4

	// OutputReserve is the token count held back for the model's reply.
	OutputReserve = 1024

	// TruncationMarker is appended when retrieved context is cut short.
	TruncationMarker = "\n[...earlier context omitted...]"

	// sectionBoundary marks the start of a labeled retrieved-context section.
	sectionBoundary = "## "

	historyShare = 0.7
)

// Message is a single conversation turn.
type Message struct {
	Role    string
	Content string
}

// MessageBudget is the result of a history budgeting walk.
type MessageBudget struct {
	Included []Message
	Tokens   int
}

// BudgetedContext is the final allocation fed to the model.
type BudgetedContext struct {
	SystemPrompt     string
	History          MessageBudget
	RetrievedContext string
}

// EstimateTokens returns a conservative token estimate: ceil(len/4).
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// EstimateMessagesTokens sums per-message content estimates plus framing overhead.
func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(m.Content) + MessageOverhead
	}
	return total
}

// CalculateMessageBudget walks messages newest-first. The most recent
// minMessages are always included regardless of budget; older messages are
// added only while the cumulative estimate stays within maxTokens, stopping at
// the first message that would exceed it. Included messages keep their
// original order. minMessages <= 0 means DefaultMinMessages.
func CalculateMessageBudget(messages []Message, maxTokens, minMessages int) MessageBudget {
	if minMessages <= 0 {
		minMessages = DefaultMinMessages
	}

	included := make([]Message, 0, len(messages))
	tokens := 0

	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		cost := EstimateTokens(m.Content) + MessageOverhead
		mandatory := len(included) < minMessages

		if !mandatory && tokens+cost > maxTokens {
			break
		}

		included = append(included, m)
		tokens += cost
	}

	// Restore chronological order.
	for i, j := 0, len(included)-1; i < j; i, j = i+1, j-1 {
		included[i], included[j] = included[j], included[i]
	}

	return MessageBudget{Included: included, Tokens: tokens}
}

// BuildBudgetedContext reserves tokens for the system prompt and the model
// reply, splits the remainder 70% history / 30% retrieved context, budgets the
// history walk, and trims retrieved context by dropping whole labeled sections
// from the end.
func BuildBudgetedContext(systemPrompt string, history []Message, retrieved string, maxTotalTokens int) BudgetedContext {
	available := maxTotalTokens - EstimateTokens(systemPrompt) - OutputReserve
	if available < 0 {
		available = 0
	}

	historyBudget := int(float64(available) * historyShare)
	retrievedBudget := available - historyBudget

	return BudgetedContext{
		SystemPrompt:     systemPrompt,
		History:          CalculateMessageBudget(history, historyBudget, DefaultMinMessages),
		RetrievedContext: truncateSections(retrieved, retrievedBudget),
	}
}

// truncateSections trims text to fit budget by dropping trailing labeled
// sections ("## " boundaries) whole. A section is never split: if a section
// does not fit, it and everything after it is dropped and the truncation
// marker appended.
func truncateSections(text string, maxTokens int) string {
	if EstimateTokens(text) <= maxTokens {
		return text
	}

	sections := splitSections(text)
	var sb strings.Builder
	used := 0

	for _, sec := range sections {
		cost := EstimateTokens(sec)
		if used+cost > maxTokens {
			break
		}
		sb.WriteString(sec)
		used += cost
	}

	return sb.String() + TruncationMarker
}

// splitSections splits text on section boundaries, keeping each boundary
// attached to the section it opens. Text before the first boundary is its own
// section.
func splitSections(text string) []string {
	var sections []string
	lines := strings.SplitAfter(text, "\n")
	var current strings.Builder

	for _, line := range lines {
		if strings.HasPrefix(line, sectionBoundary) && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}
