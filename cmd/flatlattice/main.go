// Command flatlattice tiles a parameter space described by a YAML run file
// and writes the lattice points as an XML report or counts them.
//
//	flatlattice generate --config run.yaml --out tiling.xml
//	flatlattice count --config run.yaml
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
