package main

import "fmt"

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stdout, deps.Locations.Resolve(c.Location))
	return nil
}
