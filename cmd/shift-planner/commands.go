package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/export"
	"github.com/username/shift-planner/internal/leavestore"
	"github.com/username/shift-planner/internal/planner"
	"github.com/username/shift-planner/internal/shift"
	"github.com/username/shift-planner/pkg/dateutil"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
)

// selectMonth fills in the month to show: flags, then the last viewed month,
// then the current month
func selectMonth(store *leavestore.Store, year, month int) (int, time.Month) {
	if year != 0 && month != 0 {
		return year, time.Month(month)
	}

	y, m := store.Selection()
	if y == 0 {
		today := dateutil.Today()
		y, m = today.Year, today.Month
	}
	if year != 0 {
		y = year
	}
	if month != 0 {
		m = time.Month(month)
	}
	return y, m
}

func calendarCmd() *cobra.Command {
	var year, month int
	var nextLeave bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month roster of the shift group",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}

			y, m := selectMonth(a.store, year, month)
			if err := calendar.ValidateMonth(y, m); err != nil {
				return err
			}

			if nextLeave {
				ny, nm, ok := a.store.NextMonthWithLeave(y, m, dateutil.Today().Year)
				if !ok {
					fmt.Println("Nu există alte luni cu concediu")
				} else {
					y, m = ny, nm
				}
			}

			view, err := a.manager.MonthView(cmd.Context(), y, m)
			if err != nil {
				return err
			}

			color := term.IsTerminal(int(os.Stdout.Fd()))
			printMonth(os.Stdout, view, color)

			if err := a.store.SetSelection(y, m); err != nil {
				logger.Warn("Failed to save selected month", zap.Error(err))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: last viewed or current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1..12 (default: last viewed or current)")
	cmd.Flags().BoolVar(&nextLeave, "next-leave", false, "Jump to the next month holding leave days")

	return cmd
}

func printMonth(w io.Writer, view *planner.MonthView, color bool) {
	paint := func(code, s string) string {
		if !color || code == "" {
			return s
		}
		return code + s + ansiReset
	}

	fmt.Fprintf(w, "\n%s %d, tura %d  (%d/%d)\n",
		shift.MonthName(view.Month), view.Year, view.Offset, view.LeaveInMonth, view.LeaveTotal)
	fmt.Fprintln(w, " Lu   Ma   Mi   Jo   Vi   Sâ   Du")

	if len(view.Days) == 0 {
		return
	}

	// Monday first
	first := dateutil.FirstOfMonth(view.Year, view.Month)
	lead := first.DaysSince(dateutil.StartOfWeek(first))
	for i := 0; i < lead; i++ {
		fmt.Fprint(w, "     ")
	}

	col := lead
	for _, d := range view.Days {
		num := fmt.Sprintf("%3d", d.Date.Day)
		if d.Weekend || d.Holiday {
			num = paint(ansiRed, num)
		}

		label := export.CellLabel(d.Kind, d.Leave)
		code := ""
		switch label {
		case export.LabelDay:
			code = ansiYellow
		case export.LabelNight:
			code = ansiBlue
		case export.LabelLeave:
			code = ansiGreen
		}
		fmt.Fprint(w, num, paint(code, fmt.Sprintf("%-2s", label)))

		col++
		if col == 7 {
			fmt.Fprintln(w)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}

	for _, d := range view.Days {
		if d.Holiday {
			fmt.Fprintf(w, "  %2d %s: %s\n", d.Date.Day, shift.DayName(d.Date), d.HolidayName)
		}
	}
	fmt.Fprintf(w, "\n%s = tura de zi, %s = tura de noapte, %s = concediu\n",
		export.LabelDay, export.LabelNight, export.LabelLeave)
}

func optimizeCmd() *cobra.Command {
	var year, month int
	var all bool

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the leave interval that reaches the monthly hour target",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}

			y, m := selectMonth(a.store, year, month)

			var results []planner.Result
			if all {
				results, err = a.manager.OptimizeYear(cmd.Context(), y)
			} else {
				var res planner.Result
				res, err = a.manager.OptimizeMonth(cmd.Context(), y, m)
				results = append(results, res)
			}
			if err != nil {
				return err
			}

			fmt.Printf("\nTura %d, %d\n", a.manager.Offset(), y)
			fmt.Println("═══════════════════════════════════════════════════════")
			for _, res := range results {
				if !res.Found() {
					fmt.Printf("  %-11s norma %3dh  fără soluție (%d intervale verificate)\n",
						shift.MonthName(res.Month), res.TargetHours, res.Candidates)
					continue
				}
				fmt.Printf("  %-11s norma %3dh  concediu %-6s %2d zile, %d sărbători lucrate în afara lui\n",
					shift.MonthName(res.Month), res.TargetHours, res.Interval,
					res.Best.Length, res.Best.Overlap)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: last viewed or current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1..12 (default: last viewed or current)")
	cmd.Flags().BoolVar(&all, "all", false, "Optimize every month of the year")

	return cmd
}

func planCmd() *cobra.Command {
	var year, month int
	var toggles []string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Toggle leave days and show the hours of the month",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}

			y, m := selectMonth(a.store, year, month)

			for _, s := range toggles {
				d, err := dateutil.ParseDate(s)
				if err != nil {
					return err
				}
				plan, delta, err := a.manager.ToggleLeave(cmd.Context(), d)
				if err != nil {
					return fmt.Errorf("failed to toggle %s: %w", s, err)
				}
				fmt.Printf("  %s %-9s %-8s %+3dh  (%dh / %dh)\n",
					d, shift.DayName(d), plan.State(d.Day), delta, plan.TotalHours, plan.TargetHours)
				y, m = d.Year, d.Month
			}

			plan, err := a.manager.Plan(cmd.Context(), y, m)
			if err != nil {
				return err
			}
			printPlan(os.Stdout, plan, a.manager.Policy())

			if err := a.store.SetSelection(y, m); err != nil {
				logger.Warn("Failed to save selected month", zap.Error(err))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: last viewed or current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1..12 (default: last viewed or current)")
	cmd.Flags().StringSliceVar(&toggles, "toggle", nil, "Dates (YYYY-MM-DD) to flip in or out of leave")

	return cmd
}

func printPlan(w io.Writer, plan *planner.MonthPlan, p planner.Policy) {
	fmt.Fprintf(w, "\n%s %d\n", shift.MonthName(plan.Month), plan.Year)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	for day := 1; day <= plan.Days(); day++ {
		d := dateutil.Date(plan.Year, plan.Month, day)
		state := plan.State(day)
		fmt.Fprintf(w, "  %2d %-9s %-8s %2dh\n", day, shift.DayName(d), state, state.Hours(plan.Kind(day), p))
	}

	fmt.Fprintf(w, "\n  Concediu:  %d zile\n", plan.LeaveDays)
	fmt.Fprintf(w, "  Total:     %dh\n", plan.TotalHours)
	fmt.Fprintf(w, "  Norma:     %dh\n", plan.TargetHours)
	switch remaining := plan.Remaining(); {
	case remaining > 0:
		fmt.Fprintf(w, "  Lipsă:     %dh\n", remaining)
	case remaining < 0:
		fmt.Fprintf(w, "  În plus:   %dh\n", -remaining)
	default:
		fmt.Fprintln(w, "  Norma este atinsă")
	}
}

func nearestCmd() *cobra.Command {
	var feastName, dateStr string

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the shift closest to a feast or date",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}

			var anchor civil.Date
			var title string
			if dateStr != "" {
				anchor, err = dateutil.ParseDate(dateStr)
				if err != nil {
					return err
				}
				title = anchor.String()
			} else {
				feast, err := calendar.ParseFeast(feastName)
				if err != nil {
					return err
				}
				anchor = calendar.NextFeast(feast, dateutil.Today())
				title = fmt.Sprintf("%s %d", feast.Name(), anchor.Year)
			}

			n, ok := a.manager.Nearest(anchor)
			if !ok {
				fmt.Printf("%s: nicio tură în ±%d zile\n", title, shift.SearchRadius)
				return nil
			}

			fmt.Printf("%s (%s, %d %s): ești %s %s, %d %s",
				title, shift.DayName(anchor), anchor.Day, shift.MonthName(anchor.Month),
				n.Kind.LocalName(), n.DayName, n.Date.Day, shift.MonthName(n.Date.Month))
			if n.Offset != 0 {
				fmt.Printf(" (%+d zile)", n.Offset)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&feastName, "feast", "easter", "easter, christmas or newyear")
	cmd.Flags().StringVar(&dateStr, "date", "", "Anchor date (YYYY-MM-DD), overrides --feast")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the public holidays of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}

			if year == 0 {
				year = dateutil.Today().Year
			}

			fmt.Printf("\nSărbători legale %d\n", year)
			fmt.Println("═══════════════════════════════════════════════════════")
			for m := time.January; m <= time.December; m++ {
				holidays, err := a.resolver.Holidays(cmd.Context(), year, m)
				if err != nil {
					return err
				}
				for _, h := range holidays {
					fmt.Printf("  %s %-9s %s\n", h.Date, shift.DayName(h.Date), h.LocalName)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")

	return cmd
}
