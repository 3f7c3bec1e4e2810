package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/calendar"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/cpm"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/graph"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/planfile"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/planner"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/reporter"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/ui"
)

var (
	flagLogLevel string
	flagTasks    string
	flagCSV      string
	flagJSON     string
	flagGantt    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fabtime",
		Short: "Compute resource-constrained production schedules",
		Long: `Fabtime takes a production plan (departments, worker headcounts,
ordered product sequences and a start date), decomposes it into a
dependency-chained task list and simulates a greedy earliest-start
schedule against a working-day calendar.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(flagLogLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(calendarCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.BoldRed("Error:"), err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadTasks builds the task list either from the plan's product
// sequences or, when --tasks is given, from a pre-decomposed dump.
func loadTasks(pf *planfile.PlanFile) ([]*schedule.Task, error) {
	if flagTasks != "" {
		tasks, err := planfile.LoadTaskDump(flagTasks)
		if err != nil {
			return nil, err
		}
		if _, err := graph.Build(tasks); err != nil {
			return nil, fmt.Errorf("task dump: %w", err)
		}
		return tasks, nil
	}
	return planner.BuildTasks(pf.DepartmentPlans(), pf.Units)
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Schedule a plan and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := planfile.Load(args[0])
			if err != nil {
				return err
			}
			tasks, err := loadTasks(pf)
			if err != nil {
				return err
			}

			cal := pf.Calendar()
			rm := schedule.NewResourceManager(cal, planner.Headcount(pf.DepartmentPlans()))
			for workerType, count := range pf.ApplyTransfer(rm) {
				slog.Info("workers transferred",
					"from", pf.Transfer.From, "to", pf.Transfer.To,
					"type", workerType, "count", count)
			}

			s := schedule.NewScheduler(tasks, rm, cal, pf.Start(), pf.WorkdayMinutes, slog.Default())
			records, err := s.Run()
			if err != nil {
				// The partial schedule still goes out for diagnosis.
				printReports(pf, cal, records)
				var mpe *schedule.MissingPoolError
				if errors.As(err, &mpe) {
					return fmt.Errorf("plan cannot be scheduled: %w", err)
				}
				return err
			}

			printReports(pf, cal, records)
			return writeExports(pf, cal, records)
		},
	}
	cmd.Flags().StringVar(&flagTasks, "tasks", "", "Schedule a pre-decomposed task dump (JSON) instead of the plan's products")
	cmd.Flags().StringVar(&flagCSV, "csv", "", "Write the detailed plan to a CSV file")
	cmd.Flags().StringVar(&flagJSON, "json", "", "Write the full result to a JSON file")
	cmd.Flags().BoolVar(&flagGantt, "gantt", false, "Print the day-lane occupancy view")
	return cmd
}

func printReports(pf *planfile.PlanFile, cal *calendar.Calendar, records []schedule.Record) {
	r := reporter.New(records, cal, pf.WorkdayMinutes, pf.Units)
	r.PrintSummary(os.Stdout)
	r.PrintSchedule(os.Stdout)
	if flagGantt {
		fmt.Println()
		r.PrintLanes(os.Stdout)
	}
}

func writeExports(pf *planfile.PlanFile, cal *calendar.Calendar, records []schedule.Record) error {
	r := reporter.New(records, cal, pf.WorkdayMinutes, pf.Units)
	if flagCSV != "" {
		if err := writeTo(flagCSV, r.WriteCSV); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		fmt.Printf("%s %s\n", ui.Green("wrote"), flagCSV)
	}
	if flagJSON != "" {
		if err := writeTo(flagJSON, r.WriteJSON); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		fmt.Printf("%s %s\n", ui.Green("wrote"), flagJSON)
	}
	return nil
}

func writeTo(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <plan.yaml>",
		Short: "Validate a plan and show its dependency structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := planfile.Load(args[0])
			if err != nil {
				return err
			}
			tasks, err := loadTasks(pf)
			if err != nil {
				return err
			}

			bad := planner.CheckCoverage(tasks, planner.Headcount(pf.DepartmentPlans()))
			for _, e := range bad {
				fmt.Printf("  %s %v\n", ui.BoldRed("✗"), e)
			}

			g, err := graph.Build(tasks)
			if err != nil {
				return err
			}
			analysis, err := cpm.Analyze(g)
			if err != nil {
				return err
			}

			fmt.Printf("%s %d tasks, %d independent, %d final\n",
				ui.BoldCyan("Plan:"), len(g.Tasks), len(g.Roots), len(g.Leaves))
			fmt.Printf("  %s %.0f working minutes (unlimited staff)\n",
				ui.Bold("Critical path:"), analysis.TotalMinutes)
			for _, id := range analysis.CriticalPath {
				fmt.Printf("    %s %s\n", ui.Dim("→"), g.Tasks[id].Name)
			}

			if len(bad) > 0 {
				return fmt.Errorf("%d resource pools are missing", len(bad))
			}
			fmt.Println(ui.BoldGreen("✓ plan is schedulable"))
			return nil
		},
	}
	cmd.Flags().StringVar(&flagTasks, "tasks", "", "Check a pre-decomposed task dump (JSON) instead of the plan's products")
	return cmd
}

func calendarCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show working days between two dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fmt.Errorf("invalid --from date %q", from)
			}
			end, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fmt.Errorf("invalid --to date %q", to)
			}
			if end.Before(start) {
				return fmt.Errorf("--to is before --from")
			}

			cal := calendar.New(calendar.Zaragoza2025())
			working := 0
			for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
				if cal.IsWorkday(d) {
					working++
				} else if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
					fmt.Printf("  %s %s\n", ui.Yellow("holiday"), d.Format("Mon 02-01-2006"))
				}
			}
			fmt.Printf("%s %d working days between %s and %s\n",
				ui.BoldCyan("Calendar:"), working, from, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
