package cli

import (
	"github.com/spf13/cobra"
)

// NewWelcomeCmd создаёт группу команд для welcome-писем.
func NewWelcomeCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "welcome",
		Short: "Manage welcome emails",
	}

	cmd.AddCommand(newWelcomeSendCmd(clientFn, outputFn))

	return cmd
}

func newWelcomeSendCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var req SendWelcomeRequest

	cmd := &cobra.Command{
		Use:   "send EMAIL",
		Short: "Enqueue a welcome email for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req.Email = args[0]

			job, err := client.SendWelcome(req)
			if err != nil {
				return err
			}

			out.Success("Welcome email enqueued: " + job.ID)
			out.Print(
				[]string{"ID", "KIND", "STATUS", "CREATED"},
				[][]string{{job.ID, job.Kind, job.Status, job.CreatedAt}},
				job,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Country, "country", "", "Country for personalization")
	cmd.Flags().StringVar(&req.InvestmentGoals, "goals", "", "Investment goals")
	cmd.Flags().StringVar(&req.RiskTolerance, "risk", "", "Risk tolerance")
	cmd.Flags().StringVar(&req.PreferredIndustry, "industry", "", "Preferred industry")

	return cmd
}
