package command

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
)

// ErrUnknownCommand is returned by Registry.Get for an unregistered name.
var ErrUnknownCommand = errors.New("command not found")

// Registry holds the available commands by name.
type Registry struct {
	commands map[string]Command
	aliases  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds cmd, replacing any command of the same name.
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Alias makes alias resolve to the command named target.
func (r *Registry) Alias(alias, target string) {
	r.aliases[alias] = target
}

// Get returns the command registered under name or one of its aliases.
func (r *Registry) Get(name string) (Command, error) {
	if cmd, ok := r.commands[name]; ok {
		return cmd, nil
	}
	if target, ok := r.aliases[name]; ok {
		if cmd, ok := r.commands[target]; ok {
			return cmd, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// List returns the registered command names, sorted. Aliases are not
// included.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run resolves args[0], parses its flags from the rest and executes it.
// Flag errors are reported on stderr together with the command's usage.
func (r *Registry) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("no command given")
	}
	cmd, err := r.Get(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		_, _ = fmt.Fprintln(stderr, "Use 'superdoc help' to see available commands.")
		return err
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: superdoc %s\n", cmd.Usage())
		_, _ = fmt.Fprintf(stderr, "\n%s\n", cmd.Description())
		if flags := flagDefaults(cmd); flags != "" {
			_, _ = fmt.Fprintf(stderr, "\nOptions:\n%s", flags)
		}
	}
	cmd.SetupFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return cmd.Execute(ctx, fs.Args(), stdout, stderr)
}

// flagDefaults renders the flags cmd registers, or "" if it has none.
// Registering resets cmd's bound values to their defaults.
func flagDefaults(cmd Command) string {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	cmd.SetupFlags(fs)
	fs.PrintDefaults()
	return buf.String()
}
