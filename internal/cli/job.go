package cli

import (
	"github.com/spf13/cobra"
)

// NewJobCmd создаёт группу команд для просмотра jobs.
func NewJobCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect mail jobs",
	}

	cmd.AddCommand(newJobShowCmd(clientFn, outputFn))

	return cmd
}

func newJobShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show JOB_ID",
		Short: "Show a job by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			job, err := client.GetJob(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "KIND", "STATUS", "ERROR", "CREATED", "FINISHED"},
				[][]string{{job.ID, job.Kind, job.Status, orDash(job.Error), job.CreatedAt, orDash(job.FinishedAt)}},
				job,
			)
			return nil
		},
	}
}
