package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"gradeledger/internal/domain"
	"gradeledger/internal/service"
)

var gpaCmd = &cobra.Command{
	Use:   "gpa [file]",
	Short: "Compute GPA from a list of grade assignments",
	Long: `Reads grade assignments as YAML or JSON from the file, or stdin when the
file is "-", and prints the overall, per-level and per-semester GPA.

  - subject_id: ICT1212
    grade: A
    credit_hours: 3
    semester_label: Semester 1
    level_label: Level 1`,
	Args: cobra.ExactArgs(1),
	RunE: runGPA,
}

func init() {
	rootCmd.AddCommand(gpaCmd)
}

func runGPA(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading assignments: %w", err)
	}

	// JSON is valid YAML, so one decoder covers both.
	var assignments []domain.GradeAssignment
	if err := yaml.Unmarshal(data, &assignments); err != nil {
		return fmt.Errorf("decoding assignments: %w", err)
	}

	report := service.NewAnalyticsService(nil).ComputeGPA(assignments)
	return render(cmd.OutOrStdout(), report)
}
