package cli

import (
	"github.com/spf13/cobra"

	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/markdown"
)

func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Report suspicious Markdown such as empty headings or ragged tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			warnings := markdown.Validate(text)
			if len(warnings) == 0 {
				printSuccess(out, "no problems found")
				return nil
			}
			for _, w := range warnings {
				printWarning(out, "%s", w)
			}
			if strict {
				printError(out, "%d warnings", len(warnings))
				return errors.New(errors.ErrCodeInvalidInput, "validation failed with %d warnings", len(warnings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when there are warnings")
	return cmd
}
