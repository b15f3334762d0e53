package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/dont-rust-bro/drb/internal/models"
)

const (
	hintSystemPrompt = "You are a coding tutor helping a student practice algorithm problems. " +
		"Give a short hint toward the next step. Do NOT provide code or the full solution. " +
		"Be Socratic: guide the student to discover the answer themselves. " +
		"Keep hints to 1-3 sentences."

	solutionSystemPrompt = "You are a coding tutor. The student has asked for the full solution. " +
		"Provide a complete, working solution to the problem. " +
		"Add a comment on every significant line explaining the reasoning and approach. " +
		"Make sure the solution is correct and handles edge cases."

	noChangesMessage = "No changes since last hint."
	notRunYet        = "(not run yet)"
	outputMarker     = "Test output:"
	fence            = "```"
)

// Hint asks for a progressive hint. history is the conversation so far
// (empty for the first hint); the updated history is returned.
func (c *Client) Hint(ctx context.Context, problem *models.Problem, code, output string, history []Message) (string, []Message, error) {
	var next []Message
	if len(history) == 0 {
		next = []Message{
			{Role: "system", Content: hintSystemPrompt},
			{Role: "user", Content: buildUserMessage(problem, code, output, true)},
		}
	} else {
		next = append([]Message(nil), history...)
		lastCode, lastOutput := lastCodeAndOutput(history)
		if strings.TrimSpace(code) == strings.TrimSpace(lastCode) &&
			strings.TrimSpace(output) == strings.TrimSpace(lastOutput) {
			next = append(next, Message{Role: "user", Content: noChangesMessage})
		} else {
			next = append(next, Message{Role: "user", Content: buildUserMessage(problem, code, output, false)})
		}
	}

	hint, err := c.complete(ctx, next)
	if err != nil {
		return "", history, err
	}
	next = append(next, Message{Role: "assistant", Content: hint})
	return hint, next, nil
}

// Solution asks for a fully commented solution. Previous hints are passed
// along as context, but the request is a separate conversation.
func (c *Client) Solution(ctx context.Context, problem *models.Problem, code string, history []Message) (string, error) {
	parts := []string{
		fmt.Sprintf("Problem: %s\n%s", problem.Title, problem.Description),
		fmt.Sprintf("\nStudent's current code:\n%s\n%s\n%s", fence, code, fence),
	}

	var hints []string
	for _, m := range history {
		if m.Role == "assistant" {
			hints = append(hints, "- Hint: "+m.Content)
		}
	}
	if len(hints) > 0 {
		parts = append(parts, "\nPrevious hints given:\n"+strings.Join(hints, "\n"))
	}
	parts = append(parts, "\nProvide the complete solution with line-by-line comments.")

	return c.complete(ctx, []Message{
		{Role: "system", Content: solutionSystemPrompt},
		{Role: "user", Content: strings.Join(parts, "\n")},
	})
}

func buildUserMessage(problem *models.Problem, code, output string, first bool) string {
	out := notRunYet
	if output != "" {
		out = fence + "\n" + output + "\n" + fence
	}
	if first {
		return fmt.Sprintf("Problem: %s\n%s\n\nMy code:\n%s\n%s\n%s\n\n%s %s",
			problem.Title, problem.Description, fence, code, fence, outputMarker, out)
	}
	return fmt.Sprintf("I updated my code:\n%s\n%s\n%s\n\n%s %s", fence, code, fence, outputMarker, out)
}

// lastCodeAndOutput recovers the snapshot sent in the latest user message.
func lastCodeAndOutput(history []Message) (string, string) {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role != "user" || m.Content == noChangesMessage {
			continue
		}

		code := fencedBlock(m.Content)
		output := ""
		if idx := strings.LastIndex(m.Content, outputMarker); idx >= 0 {
			section := strings.TrimSpace(m.Content[idx+len(outputMarker):])
			if !strings.HasPrefix(section, notRunYet) {
				if block := fencedBlock(section); block != "" {
					output = block
				} else {
					output = section
				}
			}
		}
		return code, output
	}
	return "", ""
}

// fencedBlock returns the first fenced block in text, trimmed.
func fencedBlock(text string) string {
	parts := strings.Split(text, fence)
	if len(parts) >= 3 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
