package commands

import (
	"gradeval/pkg/core"
	"gradeval/pkg/scorer"
	"gradeval/pkg/server"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grading API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			addrResolved := resolveString(addr, appConfig.Addr)
			if addrResolved == "" {
				addrResolved = ":8000"
			}

			aggregator := core.NewAggregator(logger,
				scorer.Relevance{},
				scorer.Accuracy{},
				scorer.Coherence{},
				scorer.Completeness{},
			)
			return server.New(aggregator, logger).ListenAndServe(addrResolved)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8000)")
	return cmd
}
