package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/studynotes-backend/internal/domain"
)

var seedFile string

// subjectsFile accepts either a bare list or a document with a top-level "subjects" key.
type subjectsFile struct {
	Subjects []*types.Subject `yaml:"subjects"`
}

func parseSubjects(r io.Reader) ([]*types.Subject, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var list []*types.Subject
	if err := yaml.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var doc subjectsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse subjects yaml: %w", err)
	}
	return doc.Subjects, nil
}

var seedSubjectsCmd = &cobra.Command{
	Use:   "seed-subjects",
	Short: "Upsert subjects from a YAML file",
	Example: `  studynotes seed-subjects --file subjects.yaml

subjects.yaml:
  - name: Physics
    description: Matter, energy and their interactions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("open subjects file: %w", err)
		}
		defer f.Close()

		rows, err := parseSubjects(f)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("%s contains no subjects", seedFile)
		}

		application, err := newApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer application.Close()

		n, err := application.Services.Subject.Seed(cmd.Context(), rows)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "seeded %d subjects\n", n)
		return nil
	},
}

func init() {
	seedSubjectsCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file listing subjects")
	_ = seedSubjectsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedSubjectsCmd)
}
