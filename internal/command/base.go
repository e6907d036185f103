// Package command implements the superdoc subcommands and their dispatch.
package command

import (
	"context"
	"flag"
	"io"
)

// Command is a subcommand of the superdoc binary.
type Command interface {
	// Name is the word used to invoke the command.
	Name() string

	// Description is the one-line summary shown by help.
	Description() string

	// Usage is the synopsis shown by help.
	Usage() string

	// SetupFlags registers the command's flags. fs is parsed before
	// Execute is called.
	SetupFlags(fs *flag.FlagSet)

	// Execute runs the command with the arguments left after flag parsing.
	// ctx is cancelled on interrupt.
	Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

// BaseCommand holds the descriptive parts of a Command. Embed it and
// implement Execute.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

// NewBaseCommand creates a BaseCommand.
func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{
		name:        name,
		description: description,
		usage:       usage,
	}
}

func (c *BaseCommand) Name() string        { return c.name }
func (c *BaseCommand) Description() string { return c.description }
func (c *BaseCommand) Usage() string       { return c.usage }

// SetupFlags registers nothing.
func (c *BaseCommand) SetupFlags(*flag.FlagSet) {}
