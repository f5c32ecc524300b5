package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewTaskCmd создаёт группу команд для управления задачами.
func NewTaskCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage running tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(clientFn, outputFn),
		newTaskAddCmd(clientFn, outputFn),
		newTaskStopCmd(clientFn, outputFn),
	)

	return cmd
}

var taskHeaders = []string{"ID", "WORKFLOW", "STATE", "REPEAT", "ITERATIONS", "CREATED"}

func taskRow(t TaskResponse) []string {
	return []string{
		t.ID,
		t.Workflow.Name,
		t.State,
		strconv.FormatBool(t.Repeat),
		strconv.Itoa(t.Iterations),
		t.CreatedAt,
	}
}

func newTaskListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks in the running table",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			tasks, err := client.Running()
			if err != nil {
				return err
			}

			rows := make([][]string, len(tasks))
			for i, t := range tasks {
				rows[i] = taskRow(t)
			}

			out.List(taskHeaders, rows, tasks, "No tasks")
			return nil
		},
	}
}

func newTaskAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add repeating tasks for every workflow named NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.AddTask(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Tasks requested for workflow %q", args[0]))
			return nil
		},
	}
}

func newTaskStopCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stop ID",
		Short: "Stop a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			task, err := client.StopTask(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Task stopped: %s", task.ID))
			out.Record([]Field{
				{"ID", task.ID},
				{"Workflow", task.Workflow.Name},
				{"State", task.State},
				{"Iterations", strconv.Itoa(task.Iterations)},
				{"Last error", task.LastError},
				{"Stopped", task.StoppedAt},
			}, task)
			return nil
		},
	}
}

// NewWorkflowCmd создаёт группу команд для каталога workflows.
func NewWorkflowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Inspect the workflow catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workflows, err := client.Workflows()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "STEPS", "SOURCE", "DESTINATION"}
			rows := make([][]string, len(workflows))
			for i, wf := range workflows {
				rows[i] = []string{strconv.Itoa(wf.ID), wf.Name, strconv.Itoa(wf.Steps), wf.Source, wf.Destination}
			}

			out.List(headers, rows, workflows, "No workflows")
			return nil
		},
	})

	return cmd
}

// NewScheduleCmd создаёт группу команд для cron-триггеров.
func NewScheduleCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect cron triggers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cron triggers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			schedules, err := client.Schedules()
			if err != nil {
				return err
			}

			headers := []string{"NAME", "WORKFLOW", "CRON", "NEXT"}
			rows := make([][]string, len(schedules))
			for i, s := range schedules {
				rows[i] = []string{s.Name, s.Workflow, s.Cron, s.Next}
			}

			out.List(headers, rows, schedules, "No schedules")
			return nil
		},
	})

	return cmd
}
