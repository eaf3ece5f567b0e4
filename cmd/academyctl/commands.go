package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"academy/internal/client"
	"academy/internal/model"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = a.v.GetString("password")
			}
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: "); err != nil {
					return err
				}
			}

			user, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, client.ErrInvalidCredentials) {
					return fmt.Errorf("login failed: %w", err)
				}
				return err
			}
			a.noteDegraded(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.FullName, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (or ACADEMY_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := a.client.Logout()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed out. Next: %s\n", route)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			a.noteDegraded(cmd)
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "ID\t%s\n", user.ID)
			fmt.Fprintf(w, "Name\t%s\n", user.FullName)
			fmt.Fprintf(w, "Email\t%s\n", user.Email)
			fmt.Fprintf(w, "Role\t%s\n", user.Role)
			return w.Flush()
		},
	}
}

func newCoursesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "courses [id]",
		Short: "List courses, or show one course with its lessons",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newTable(cmd.OutOrStdout())
			if len(args) == 1 {
				course, err := a.client.Courses.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.noteDegraded(cmd)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", course.Title, course.Description)
				fmt.Fprintln(w, "MODULE\tLESSON\tTITLE\tDURATION")
				for _, m := range course.Modules {
					for _, l := range m.Lessons {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Title, l.ID, l.Title, l.Duration)
					}
				}
				return w.Flush()
			}

			courses, err := a.client.Courses.List(cmd.Context())
			if err != nil {
				return err
			}
			a.noteDegraded(cmd)
			fmt.Fprintln(w, "ID\tTITLE\tLESSONS")
			for _, c := range courses {
				fmt.Fprintf(w, "%s\t%s\t%d\n", c.ID, c.Title, c.LessonCount())
			}
			return w.Flush()
		},
	}
}

func newResourcesCmd(a *app) *cobra.Command {
	var filter model.ResourceFilter
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Browse the resource library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := a.client.Resources.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			a.noteDegraded(cmd)
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tTYPE\tCATEGORY\tTITLE\tFILE")
			for _, r := range resources {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Type, r.Category, r.Title, r.FileURL)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&filter.Category, "category", "c", "", "category, or all")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "search title and description")
	return cmd
}

func newProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress [courseId...]",
		Short: "Show completed lessons",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.client.Progress.Filter(cmd.Context(), args...)
			if err != nil {
				return err
			}
			a.noteDegraded(cmd)
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "COURSE\tCOMPLETED\tLAST ACCESSED")
			for _, p := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.CourseID, strings.Join(p.CompletedLessons, ","), formatTime(p.LastAccessed))
			}
			return w.Flush()
		},
	}
}

func newCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <courseId> <lessonId>",
		Short: "Mark a lesson as completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Progress.Update(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.noteDegraded(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d lesson(s) completed (%s)\n",
				p.CourseID, len(p.CompletedLessons), strings.Join(p.CompletedLessons, ", "))
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show completion per course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.client.Progress.Summary(cmd.Context())
			if err != nil {
				return err
			}
			a.noteDegraded(cmd)
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "COURSE\tDONE\tPERCENT\tLAST ACCESSED")
			for _, s := range summary {
				fmt.Fprintf(w, "%s\t%d/%d\t%d%%\t%s\n", s.Title, s.CompletedLessons, s.TotalLessons, s.Percent, formatTime(s.LastAccessed))
			}
			return w.Flush()
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the API and show the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.client.Courses.List(cmd.Context())
			if err != nil {
				return err
			}
			api := "online"
			if a.client.Degraded() {
				api = "offline (using local data)"
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "API\t%s\n", a.v.GetString("api_url"))
			fmt.Fprintf(w, "Status\t%s\n", api)
			fmt.Fprintf(w, "Data dir\t%s\n", a.v.GetString("data_dir"))
			if state, ok := a.client.Session(); ok {
				fmt.Fprintf(w, "Signed in\t%s <%s>\n", state.User.FullName, state.User.Email)
				if pending, err := a.client.Progress.Pending(); err == nil {
					fmt.Fprintf(w, "Unsynced\t%d lesson(s)\n", pending)
				}
			} else {
				fmt.Fprintln(w, "Signed in\tno")
			}
			return w.Flush()
		},
	}
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func readLine(in io.Reader, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
