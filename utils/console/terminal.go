package console

/*
 terminal prompts used by the interactive approver
*/

import (
	"fmt"
	"strings"
	"sync"

	"github.com/peterh/liner"
)

var (
	stdinOnce sync.Once
	stdin     *Terminal
)

// Stdin returns the process wide terminal, created on first use.
func Stdin() *Terminal {
	stdinOnce.Do(func() {
		stdin = NewTerminal()
	})
	return stdin
}

// Terminal
type Terminal struct {
	*liner.State
	mu         sync.Mutex
	supported  bool
	normalMode liner.ModeApplier
	rawMode    liner.ModeApplier
}

// NewTerminal
func NewTerminal() *Terminal {
	p := new(Terminal)

	normalMode, _ := liner.TerminalMode()
	p.State = liner.NewLiner()

	rawMode, err := liner.TerminalMode()
	if err != nil || !liner.TerminalSupported() {
		p.supported = false
	} else {
		p.supported = true
		p.normalMode = normalMode
		p.rawMode = rawMode

		normalMode.ApplyMode()
	}
	p.SetCtrlCAborts(true)
	p.SetMultiLineMode(true)

	return p
}

// promptInput reads one line. Concurrent prompts are asked one after the other.
func (p *Terminal) promptInput(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.supported {
		p.rawMode.ApplyMode()
		defer p.normalMode.ApplyMode()
	} else {
		// liner doesn't echo the prompt when the terminal is not supported
		fmt.Print(prompt)
		prompt = ""
		defer fmt.Println()
	}

	input, err := p.State.Prompt(prompt)
	if err != nil {
		return "", err
	}
	p.AppendHistory(input)
	return input, nil
}

// PromptPassword
func (p *Terminal) PromptPassword(prompt string) (passwd string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.supported {
		p.rawMode.ApplyMode()
		defer p.normalMode.ApplyMode()
		return p.State.PasswordPrompt(prompt)
	}

	fmt.Print(prompt)
	passwd, err = p.State.Prompt("")
	fmt.Println()
	return passwd, err
}

// Confirm asks a yes/no question. An empty answer returns def.
func (p *Terminal) Confirm(prompt string, def bool) (bool, error) {
	input, err := p.promptInput(prompt)
	if err != nil {
		if err == liner.ErrPromptAborted {
			return false, nil
		}
		return false, err
	}
	return ParseYesNo(input, def), nil
}

func ParseYesNo(input string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}
