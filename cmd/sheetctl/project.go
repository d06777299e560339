package main

import (
	"github.com/spf13/cobra"

	"gradeledger/internal/service"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Compute the GPA needed over the remaining credits to reach a target",
	Args:  cobra.NoArgs,
	RunE:  runProject,
}

var projectInput service.ProjectionInput

func init() {
	f := projectCmd.Flags()
	f.Float64Var(&projectInput.CurrentGPA, "current", 0, "Current cumulative GPA")
	f.Float64Var(&projectInput.CompletedCredits, "completed", 0, "Credits completed so far")
	f.Float64Var(&projectInput.TargetGPA, "target", 0, "Target cumulative GPA")
	f.Float64Var(&projectInput.RemainingCredits, "remaining", 0, "Credits still to be taken")
	_ = projectCmd.MarkFlagRequired("target")
	_ = projectCmd.MarkFlagRequired("remaining")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	p, err := service.NewAnalyticsService(nil).Project(projectInput)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), p)
}
