package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/jobs"
	"github.com/xrsl/careerflow/pkg/style"
)

var (
	jobTitle     string
	jobCompany   string
	jobStatus    string
	jobNotes     string
	jobNoFetch   bool
	jobsJSON     bool
	sessionKind  string
	sessionScore float64
)

var userAgent = "careerflow/" + Version

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Track job postings and interview practice",
	Long: `Track the jobs you are pursuing. Application and interview dates feed the
outcome of the job application and interview prep workflows.`,
}

var jobsAddCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Track a job posting",
	Long: `Track a job posting. With a URL the posting is fetched and its title and
company are extracted; --title and --company override what was found.

Examples:
  careerflow jobs add https://company.com/careers/123
  careerflow jobs add --title "Data Engineer" --company Acme --status applied`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobsAdd,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			all, err := a.Jobs.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jobsJSON {
				return printJSON(out, all)
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "No jobs tracked yet. Run: careerflow jobs add <url>")
				return nil
			}
			for _, j := range all {
				score := ""
				if j.MatchScore != nil {
					score = fmt.Sprintf("%3.0f%%", *j.MatchScore)
				}
				fmt.Fprintf(out, "%s  %-13s %-4s %s %s\n", style.C(style.Gray, j.ID[:8]), j.Status, score,
					j.Title, style.C(style.Cyan, j.Company))
			}
			return nil
		})
	},
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status <job> <status>",
	Short: "Update a job's status",
	Long: `Set a job to saved, applied, interviewing, offer or rejected.
<job> is the id or a unique prefix of it.`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 1 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var out []string
		for _, s := range jobs.Statuses() {
			out = append(out, string(s))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := jobs.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			j, err := a.Jobs.SetStatus(ctx, args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", style.Success("Status updated"), j.Title, style.C(style.Cyan, string(j.Status)))
			return nil
		})
	},
}

var jobsScoreCmd = &cobra.Command{
	Use:   "score <job> <0-100>",
	Short: "Record how well you match a job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid score: %s", args[1])
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			j, err := a.Jobs.SetMatchScore(ctx, args[0], score)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %.0f%%\n", style.Success("Match score"), j.Title, score)
			return nil
		})
	},
}

var jobsSessionCmd = &cobra.Command{
	Use:   "session [job]",
	Short: "Record an interview practice session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			s := jobs.Session{Kind: sessionKind}
			if len(args) == 1 {
				j, err := a.Jobs.Get(ctx, args[0])
				if err != nil {
					return err
				}
				s.JobID = j.ID
			}
			if cmd.Flags().Changed("score") {
				s.Score = &sessionScore
			}
			s, err := a.Jobs.AddSession(ctx, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s session %s\n", style.Success("Recorded"), s.Kind, style.C(style.Gray, s.ID[:8]))
			return nil
		})
	},
}

func init() {
	jobsAddCmd.Flags().StringVarP(&jobTitle, "title", "t", "", "Job title")
	jobsAddCmd.Flags().StringVarP(&jobCompany, "company", "c", "", "Company")
	jobsAddCmd.Flags().StringVarP(&jobStatus, "status", "s", string(jobs.StatusSaved), "Initial status")
	jobsAddCmd.Flags().StringVar(&jobNotes, "notes", "", "Free-form notes")
	jobsAddCmd.Flags().BoolVar(&jobNoFetch, "no-fetch", false, "Do not download the posting")

	jobsListCmd.Flags().BoolVar(&jobsJSON, "json", false, "Output as JSON")

	jobsSessionCmd.Flags().StringVarP(&sessionKind, "kind", "k", jobs.SessionPractice, "Session kind: practice or mock")
	jobsSessionCmd.Flags().Float64Var(&sessionScore, "score", 0, "Self-assessed score")

	jobsCmd.AddCommand(jobsAddCmd, jobsListCmd, jobsStatusCmd, jobsScoreCmd, jobsSessionCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsAdd(cmd *cobra.Command, args []string) error {
	status, err := jobs.ParseStatus(jobStatus)
	if err != nil {
		return err
	}
	job := jobs.Job{Title: jobTitle, Company: jobCompany, Status: status, Notes: jobNotes}
	if len(args) == 1 {
		job.URL = args[0]
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		if job.URL != "" && !jobNoFetch {
			fmt.Fprintf(out, "%s Fetching %s\n", style.C(style.Blue, "→"), job.URL)
			posting, err := jobs.NewFetcher(userAgent).Fetch(ctx, job.URL)
			if err != nil {
				if job.Title == "" {
					return fmt.Errorf("fetch posting: %w (use --title to add it anyway)", err)
				}
				fmt.Fprintf(out, "%s %v\n", style.Warn("Could not fetch posting"), err)
			} else {
				if job.Title == "" {
					job.Title = posting.Title
				}
				if job.Company == "" {
					job.Company = posting.Company
				}
			}
		}

		saved, err := a.Jobs.Add(ctx, job)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s", style.Success("Tracking"), saved.Title)
		if saved.Company != "" {
			fmt.Fprintf(out, " @ %s", style.C(style.Cyan, saved.Company))
		}
		fmt.Fprintf(out, " %s\n", style.C(style.Gray, saved.ID[:8]))
		return nil
	})
}
