package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"salescast/remote"
	"salescast/render"
	"salescast/static"
	"salescast/workflow"
)

func newPredictCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Show the baseline prediction, then submit the form for a live one",
		Example: `  salescast predict --age 30 --orders 5 --state Karnataka
  salescast predict --age 41 --gender F --age-group 36-45 --festival Holi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf := a.newWorkflow()
			defer wf.Close()

			if err := applyFormFlags(cmd, wf); err != nil {
				return err
			}
			return predict(cmd.OutOrStdout(), wf)
		},
	}
	addFormFlags(cmd)
	return cmd
}

func (a *app) newWorkflow() *workflow.Workflow {
	return workflow.New(
		static.NewSource(a.cfg.Client.StaticURL, nil, a.logger),
		remote.NewClient(a.cfg.Client.Endpoint, nil, a.logger),
		workflow.WithTimeout(a.cfg.Client.SubmitTimeout.Duration),
		workflow.WithRequireFestival(a.cfg.Client.RequireFestival),
		workflow.WithLogger(a.logger),
	)
}

// predict mounts wf, prints the baseline view, submits the working form
// and prints the outcome. A failed submission is shown, not returned.
func predict(out io.Writer, wf *workflow.Workflow) error {
	<-wf.Mount()
	fmt.Fprintln(out, render.Prediction(wf.Snapshot()))

	attempt, err := wf.SubmitCurrent()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, render.Prediction(wf.Snapshot()))

	<-attempt.Done()
	fmt.Fprintln(out, render.Prediction(wf.Snapshot()))
	return nil
}
