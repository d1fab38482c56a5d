package cli

import (
	"github.com/spf13/cobra"
)

// NewDigestCmd создаёт группу команд для управления рассылкой.
func NewDigestCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Manage the daily news digest",
	}

	cmd.AddCommand(
		newDigestStatusCmd(clientFn, outputFn),
		newDigestTriggerCmd(clientFn, outputFn),
	)

	return cmd
}

func newDigestStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show digest state for the current date",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.DigestStatus()
			if err != nil {
				return err
			}

			jobStatus := "-"
			if status.Job != nil {
				jobStatus = status.Job.Status
			}

			out.Print(
				[]string{"RUN_DATE", "LAST_SENT", "SEND_LOCK", "JOB"},
				[][]string{{status.RunDate, orDash(status.LastSentDate), orDash(status.SendLock), jobStatus}},
				status,
			)
			return nil
		},
	}
}

func newDigestTriggerCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Enqueue the digest job for the current date",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.TriggerDigest()
			if err != nil {
				return err
			}

			if result.Job != nil {
				out.Success("Digest triggered: " + result.Job.ID)
				out.Print(
					[]string{"ID", "KIND", "STATUS", "CREATED"},
					[][]string{{result.Job.ID, result.Job.Kind, result.Job.Status, result.Job.CreatedAt}},
					result,
				)
			} else {
				out.Success("Digest trigger accepted for " + result.RunDate)
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
