package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/export"
	"github.com/username/shift-planner/internal/shift"
	"github.com/username/shift-planner/pkg/dateutil"
)

func exportCmd() *cobra.Command {
	var format, out string
	var year int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the yearly roster as XLSX or the shift days as ICS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "xlsx" && format != "ics" {
				return fmt.Errorf("unknown export format: %s", format)
			}

			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}

			if year == 0 {
				year = dateutil.Today().Year
			}
			if out == "" {
				out = fmt.Sprintf("ture-%d.%s", year, format)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()

			w := bufio.NewWriter(f)
			cycle := a.manager.Cycles().Calendar
			offset := a.manager.Offset()

			switch format {
			case "xlsx":
				months := make([]*calendar.MonthInfo, 0, 12)
				for m := time.January; m <= time.December; m++ {
					info, err := a.resolver.MonthInfo(cmd.Context(), year, m, a.manager.Policy().TargetDayHours)
					if err != nil {
						return err
					}
					months = append(months, info)
				}

				roster := export.NewRoster(year, months, cycle, rosterGroups(), logger).WithLeave(a.store, offset)
				if err := roster.Write(w); err != nil {
					return err
				}

			case "ics":
				from := dateutil.Date(year, time.January, 1)
				to := dateutil.Date(year, time.December, 31)
				events, err := export.ShiftEvents(cycle, offset, from, to, a.store)
				if err != nil {
					return err
				}
				if err := export.WriteICS(w, fmt.Sprintf("Tura %d %d", offset, year), offset, events); err != nil {
					return err
				}
			}

			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			logger.Info("Export written", zap.String("file", out), zap.String("format", format))
			fmt.Printf("✅ %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "xlsx or ics")
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: ture-<year>.<format>)")

	return cmd
}

// rosterGroups returns one column per group, labelled the way users name them
func rosterGroups() []export.Group {
	groups := make([]export.Group, 0, shift.CycleLength)
	for n := 1; n <= shift.CycleLength; n++ {
		o := shift.Offset(n)
		if cfg.Shift.NormalizeOffset {
			o = o.Normalize()
		}
		groups = append(groups, export.Group{Name: fmt.Sprintf("tura %d", n), Offset: o})
	}
	return groups
}
