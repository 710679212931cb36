package testutil

import (
	"fmt"
	"sync"
)

// Notices records notifications for assertions.
type Notices struct {
	mu       sync.Mutex
	Success  []string
	Warnings []string
	Errors   []string
}

func (n *Notices) Successf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Success = append(n.Success, fmt.Sprintf(format, args...))
}

func (n *Notices) Warnf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Warnings = append(n.Warnings, fmt.Sprintf(format, args...))
}

func (n *Notices) Errorf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, fmt.Sprintf(format, args...))
}

// ConfirmAll approves every prompt and records them.
type ConfirmAll struct {
	mu      sync.Mutex
	Prompts []string
}

func (c *ConfirmAll) Confirm(prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Prompts = append(c.Prompts, prompt)
	return true
}

// ConfirmNone declines every prompt.
func ConfirmNone(string) bool { return false }
