package main

import "fmt"

// Run executes the destinations command.
func (c *DestinationsCmd) Run(deps *Dependencies) error {
	for _, a := range deps.Service.Adaptors.List() {
		status := "not configured"
		if a.IsAvailable() {
			status = "ready"
		}
		fmt.Fprintf(deps.Stdout, "%-12s %-12s %s\n", a.Name(), a.TitleForMenuItem(), status)
	}
	return nil
}
