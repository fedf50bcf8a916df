package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"saythenumber/numinput"
	"saythenumber/shared/types"
)

// say <text>: normalize text, submit it once and print the answer.
func sayCmd() *cobra.Command {
	var delay bool
	cmd := &cobra.Command{
		Use:   "say <text>",
		Short: "Say one number and exit",
		Example: `  saythenumber say 208
  saythenumber say --delay -- -3.14`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp(cmd.Context(), cfg, logger)
			defer a.Close()

			literal := numinput.Normalize(strings.Join(args, ""))
			submit := a.orch.SubmitNow
			if delay {
				submit = a.orch.SubmitWithDelay
			}
			attempt, err := submit(literal)
			if err != nil {
				return err
			}

			result, err := attempt.Wait(cmd.Context())
			if err != nil {
				return err
			}
			if result.State != types.StateSucceeded {
				msg := "failed"
				if result.Error != nil {
					msg = result.Error.Message
				}
				return errors.New(msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&delay, "delay", false, "use the delayed path")
	return cmd
}
