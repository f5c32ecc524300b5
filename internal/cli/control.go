package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewOrchestratorCmd создаёт группу команд для управления оркестратором.
func NewOrchestratorCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orchestrator",
		Aliases: []string{"orch"},
		Short:   "Control the orchestrator",
	}

	cmd.AddCommand(
		newOrchestratorStatusCmd(clientFn, outputFn),
		newOrchestratorRunCmd(clientFn, outputFn),
		newOrchestratorStopCmd(clientFn, outputFn),
		newOrchestratorFullStopCmd(clientFn, outputFn),
	)

	return cmd
}

func newOrchestratorStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show orchestrator status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.Status()
			if err != nil {
				return err
			}

			out.Record([]Field{
				{"Running", strconv.FormatBool(status.Running)},
				{"Tasks", strconv.Itoa(status.Tasks)},
				{"Workflows", strconv.Itoa(status.Workflows)},
				{"Started", status.StartedAt},
			}, status)
			return nil
		},
	}
}

func newOrchestratorRunCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the orchestrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, err := clientFn().Run()
			if err != nil {
				return err
			}
			printState(outputFn(), "Orchestrator running", running)
			return nil
		},
	}
}

func newOrchestratorStopCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the orchestrator and all tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, err := clientFn().Stop()
			if err != nil {
				return err
			}
			printState(outputFn(), "Orchestrator stopped", running)
			return nil
		},
	}
}

func newOrchestratorFullStopCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "full-stop",
		Short: "Stop the orchestrator and shut down the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			ok, err := client.FullStop()
			if err != nil {
				return err
			}

			out.Success("Server shutting down")
			out.Record([]Field{{"Full stop", strconv.FormatBool(ok)}}, map[string]bool{"fullStop": ok})
			return nil
		},
	}
}

func printState(out *Output, msg string, running bool) {
	out.Success(msg)
	out.Record([]Field{{"Orchestrator", strconv.FormatBool(running)}}, map[string]bool{"orchestrator": running})
}
