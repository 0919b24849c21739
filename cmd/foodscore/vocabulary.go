package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newVocabularyCmd() *cobra.Command {
	var vocabularyPath string

	cmd := &cobra.Command{
		Use:   "vocabulary",
		Short: "Print the processing vocabulary as YAML",
		Long: `Print the ingredient vocabulary used to classify processing level.

Save the output, edit it, and pass it back with --vocabulary to score
with a custom vocabulary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVocabulary(vocabularyPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&vocabularyPath, "vocabulary", "", "Vocabulary YAML file to normalize and print (default: built-in)")

	return cmd
}

func runVocabulary(path string, stdout io.Writer) error {
	r, err := loadRubric(path)
	if err != nil {
		return err
	}

	data, err := r.Vocabulary().Marshal()
	if err != nil {
		return exitError(1, "failed to encode vocabulary: %v", err)
	}
	_, err = stdout.Write(data)
	return err
}
