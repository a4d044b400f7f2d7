package view

import (
	"fmt"
	"sort"
	"strings"
)

// Command is a user action on the viewer.
type Command string

const (
	CmdSwitchView Command = "switch-view"
	CmdDistance   Command = "distance"
	CmdArea       Command = "area"
	CmdClear      Command = "clear"
)

var commandTable = map[Command]func(*Coordinator) error{
	CmdSwitchView: (*Coordinator).SwitchView,
	CmdDistance:   func(c *Coordinator) error { c.SelectDistance(); return nil },
	CmdArea:       func(c *Coordinator) error { c.SelectArea(); return nil },
	CmdClear:      func(c *Coordinator) error { c.Clear(); return nil },
}

// ParseCommand maps a command name to a Command.
func ParseCommand(name string) (Command, error) {
	cmd := Command(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := commandTable[cmd]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return cmd, nil
}

// Commands lists the known command names in sorted order.
func Commands() []string {
	names := make([]string, 0, len(commandTable))
	for cmd := range commandTable {
		names = append(names, string(cmd))
	}
	sort.Strings(names)
	return names
}

// Dispatch runs cmd against the coordinator.
func (c *Coordinator) Dispatch(cmd Command) error {
	run, ok := commandTable[cmd]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return run(c)
}
