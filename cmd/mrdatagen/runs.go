package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded runs",
	}

	var limit int
	var status string
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := svc.ListRuns(limit, status)
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCHEMA\tTARGET\tSTATUS\tSEED\tSTARTED")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					shortID(r.ID), r.SchemaName, r.TargetKind, statusText(r.Status), r.Seed, r.StartedAt.Local().Format("2006-01-02 15:04"))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			run, err := svc.GetRun(args[0])
			if err != nil {
				return err
			}

			// round-trip through JSON so the YAML keys match `runs list --format json`
			raw, err := json.Marshal(run)
			if err != nil {
				return err
			}
			var view map[string]any
			if err := json.Unmarshal(raw, &view); err != nil {
				return err
			}
			data, _ := yaml.Marshal(view)
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusText(s domain.RunStatus) string {
	switch s {
	case domain.RunStatusSuccess:
		return color.GreenString(string(s))
	case domain.RunStatusFailed:
		return color.RedString(string(s))
	default:
		return color.YellowString(string(s))
	}
}
