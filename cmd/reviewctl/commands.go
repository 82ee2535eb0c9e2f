package main

import (
	"application_review_system/internal"
	"application_review_system/internal/db/models"
	"application_review_system/internal/services"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show application statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			statistics, err := ctx.svc.Applications.GetStatistics(cmd.Context())
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprint(stdout, renderTable([]string{"Status", "Count"}, statisticsRows(statistics), []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintln(stdout)
			fmt.Fprintf(stdout, "Approval rate: %.1f%%\n", statistics.ApprovalRate*100)
			fmt.Fprintf(stdout, "Average days to decision: %.1f\n", statistics.AverageDaysToDecision)
			fmt.Fprintf(stdout, "Approved monthly total: %s\n", internal.FormatAmount(statistics.TotalApprovedMonthlyAmount))
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := make([]models.ApplicationStatus, 0, len(statuses))
			for _, status := range statuses {
				filter = append(filter, models.ApplicationStatus(status))
			}

			applications, err := ctx.svc.Applications.ListApplications(cmd.Context(), filter...)
			if err != nil {
				return err
			}
			if len(applications) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No applications")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Applicant", "Status", "Requested", "Submitted", "Decision"},
				applicationRows(applications),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only show applications in these statuses")
	return cmd
}

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <application id>",
		Short: "Show the voting summary of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applicationID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid application id %q", args[0])
			}

			summary, err := ctx.svc.Applications.GetVotingSummary(cmd.Context(), applicationID)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintln(stdout, renderTable([]string{"Decision", "Votes"}, summaryRows(summary), []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(stdout, "Required: %d, sufficient: %t, approved: %t\n", summary.VotesRequired, summary.HasSufficientVotes, summary.IsApproved)
			if len(summary.PendingVoters) > 0 {
				fmt.Fprintf(stdout, "Pending: %s\n", strings.Join(summary.PendingVoters, ", "))
			}
			return nil
		},
	}
}

func newDeliverCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deliver",
		Short: "Run one notification delivery cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			worker, err := ctx.deliveryWorker()
			if err != nil {
				return err
			}

			report, err := worker.RunOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Delivered: %d, failed: %d, skipped: %d\n", report.Delivered, report.Failed, report.Skipped)
			return err
		},
	}
}

func newPurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Expire and delete old notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			worker, err := ctx.deliveryWorker()
			if err != nil {
				return err
			}

			expired, deleted, err := worker.Purge(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Expired: %d, deleted: %d\n", expired, deleted)
			return nil
		},
	}
}

func statisticsRows(statistics services.Statistics) [][]string {
	rows := make([][]string, 0, len(models.ApplicationStatuses)+1)
	for _, status := range models.ApplicationStatuses {
		rows = append(rows, []string{status.DisplayName(), strconv.Itoa(statistics.ByStatus[status])})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(statistics.TotalApplications)})
	return rows
}

func applicationRows(applications []*models.Application) [][]string {
	rows := make([][]string, 0, len(applications))
	for _, application := range applications {
		decision := "-"
		if application.FinalDecision != models.FinalDecisionNone {
			decision = application.FinalDecision.DisplayName()
		}
		rows = append(rows, []string{
			strconv.FormatInt(application.ID, 10),
			application.Profile.FullName,
			application.Status.DisplayName(),
			internal.FormatAmount(application.Profile.RequestedMonthlyAmount),
			internal.FormatOptional(application.SubmittedDate),
			decision,
		})
	}
	return rows
}

func summaryRows(summary services.VotingSummary) [][]string {
	return [][]string{
		{models.VoteDecisionApprove.DisplayName(), strconv.Itoa(summary.ApproveCount)},
		{models.VoteDecisionReject.DisplayName(), strconv.Itoa(summary.RejectCount)},
		{models.VoteDecisionNeedsMoreInfo.DisplayName(), strconv.Itoa(summary.NeedsInfoCount)},
		{models.VoteDecisionAbstain.DisplayName(), strconv.Itoa(summary.AbstainCount)},
	}
}
