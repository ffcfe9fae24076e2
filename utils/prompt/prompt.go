// Package promptutils wraps the interactive prompts used by commands that
// need a selection or confirmation, so the rest of the code never touches
// promptui directly and tests can substitute a mock.
package promptutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

type Prompter interface {
	PromptRequired(label string) (string, error)
	PromptWithDefault(label, defaultValue string) (string, error)
	PromptForSelection(label string, items []string) (string, error)
	PromptForConfirmation(label string) bool
}

// ErrInterrupted is returned when the user aborts a prompt with Ctrl-C.
var ErrInterrupted = errors.New("operation interrupted")

type RealPrompter struct{}

func NewPrompt() Prompter {
	return &RealPrompter{}
}

func (p *RealPrompter) handlePromptError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, promptui.ErrInterrupt) {
		return ErrInterrupted
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// PromptRequired asks for a value and refuses an empty answer.
func (p *RealPrompter) PromptRequired(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("a value is required")
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err := p.handlePromptError(err); err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// PromptWithDefault asks for a value, falling back to defaultValue on an
// empty answer.
func (p *RealPrompter) PromptWithDefault(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
	result, err := prompt.Run()
	if err := p.handlePromptError(err); err != nil {
		return "", err
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return defaultValue, nil
	}
	return result, nil
}

// PromptForSelection shows a picker over items and returns the chosen one.
func (p *RealPrompter) PromptForSelection(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  12,
	}
	_, selected, err := prompt.Run()
	if err := p.handlePromptError(err); err != nil {
		return "", err
	}
	return selected, nil
}

// PromptForConfirmation asks a yes/no question; anything but an explicit yes
// is a no.
func (p *RealPrompter) PromptForConfirmation(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	result, err := prompt.Run()
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(result), "y")
}
