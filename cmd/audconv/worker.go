// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"

	"github.com/ik5/audconv/formats/mp3/lame"
	"github.com/ik5/audconv/internal/config"
	"github.com/ik5/audconv/worker"
	"github.com/spf13/cobra"
)

// workerArgs re-enter this binary as an encoding worker.
var workerArgs = []string{"worker"}

func newWorkerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Encode one job read from stdin (used internally)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return worker.Serve(cmd.Context(), os.Stdin, os.Stdout,
				worker.WithMP3Encoder(lame.NewFrameEncoder),
				worker.WithLogger(a.log.Named("worker")),
			)
		},
	}
}

func (a *app) runner() (worker.Runner, error) {
	if a.cfg.Worker == config.WorkerInProcess {
		return worker.NewInProcess(
			worker.WithMP3Encoder(lame.NewFrameEncoder),
			worker.WithLogger(a.log),
		), nil
	}

	return worker.Self(workerArgs, worker.WithLogger(a.log))
}
