package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.Client.CheckHealth(cmd.Context())
		if !res.OK() {
			return fmt.Errorf("%s is %s: %s", a.Client.BaseURL(), res.Status, res.Reason)
		}
		fmt.Printf("%s is %s\n", a.Client.BaseURL(), res.Status)
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with their completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c := a.Controller()
		if err := c.Startup(cmd.Context()); err != nil {
			return err
		}
		s := c.State()
		if s.Err != "" {
			return errors.New(s.Err)
		}
		if len(s.Projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		fmt.Printf("\n%-26s  %-28s  %-10s  %-7s  %s\n", "ID", "NAME", "STATUS", "TASKS", "DONE")
		fmt.Println(strings.Repeat("-", 84))
		for _, p := range s.Projects {
			fmt.Printf("%-26s  %-28s  %-10s  %3d/%-3d  %3d%%\n",
				truncate(p.Key.String(), 26),
				truncate(p.Name, 28),
				p.Status.Label(),
				p.Completed, p.Total,
				p.Completion(),
			)
		}

		sum := s.Summary()
		fmt.Printf("\nTotal: %d project(s), %d of %d tasks completed (%d%%)\n",
			sum.Projects, sum.CompletedTasks, sum.TotalTasks, sum.Percent())
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c := a.Controller()
		if err := c.LoadUsers(cmd.Context()); err != nil {
			return err
		}
		users := c.State().Users
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		fmt.Printf("\n%-24s  %-32s  %s\n", "NAME", "EMAIL", "ROLE")
		fmt.Println(strings.Repeat("-", 70))
		for _, u := range users {
			fmt.Printf("%-24s  %-32s  %s\n", truncate(u.Name, 24), truncate(u.Email, 32), u.Role.Label())
		}
		fmt.Printf("\nTotal: %d user(s)\n", len(users))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print per-project statistics and the task timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c := a.Controller()
		if err := c.LoadReport(cmd.Context()); err != nil {
			return err
		}
		r := c.State().Report
		if r == nil {
			return errors.New("no report returned")
		}

		fmt.Printf("\n%-28s  %5s  %9s  %7s  %s\n", "PROJECT", "TASKS", "COMPLETED", "PENDING", "DONE")
		fmt.Println(strings.Repeat("-", 66))
		for _, st := range r.Stats {
			fmt.Printf("%-28s  %5d  %9d  %7d  %3d%%\n",
				truncate(st.Name, 28), st.TotalTasks, st.CompletedTasks, st.PendingTasks, st.Percent())
		}

		for _, name := range r.ProjectNames() {
			fmt.Printf("\n%s\n", name)
			for _, e := range r.Timeline {
				if e.ProjectName != name {
					continue
				}
				due := ""
				if e.DueDate != nil && *e.DueDate != "" {
					due = "  due " + *e.DueDate
				}
				fmt.Printf("  %-12s  %-40s  %3d%%%s\n", e.Status.Label(), truncate(e.TaskName, 40), e.Progress(), due)
			}
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tablero v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd, projectsCmd, usersCmd, reportCmd, versionCmd)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 2 {
		return string(r[:n])
	}
	return string(r[:n-2]) + ".."
}
