package domain

import "strings"

// Command is a subprocess invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory of the process.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
}

// String renders the command line.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}
