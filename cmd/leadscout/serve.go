package main

import (
	lshttp "github.com/fwojciec/leadscout/http"
)

// Run executes the serve command. It returns once the context is cancelled
// and the server has shut down.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := lshttp.NewServer(deps.Sessions, deps.Runs, deps.Logger)
	return srv.ListenAndServe(deps.Ctx, c.Addr)
}
