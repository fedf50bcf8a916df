package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"saythenumber/shared/kafka"
	"saythenumber/shared/types"
)

// watch: print every attempt published to the Kafka topic.
func watchCmd() *cobra.Command {
	var fromBeginning bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print finished attempts published to Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.Kafka.Brokers) == 0 {
				return errors.New("no brokers configured. set KAFKA_BOOTSTRAP_SERVERS")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
				Brokers:    cfg.Kafka.Brokers,
				Topic:      cfg.Kafka.Topic,
				GroupID:    cfg.Kafka.GroupID,
				Logger:     logger.Named("kafka"),
				FromOldest: fromBeginning,
				Handler: &kafka.TypedMessageHandler[types.Outcome]{
					Validate: func(o *types.Outcome) bool { return o.AttemptID != "" },
					Process: func(ctx context.Context, o *types.Outcome) error {
						_, err := fmt.Fprintln(out, formatOutcome(o))
						return err
					},
					AlwaysMark: true,
				},
			})
			if err != nil {
				return err
			}
			defer consumer.Close()

			if err := consumer.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "replay the topic from the oldest message")
	return cmd
}

func formatOutcome(o *types.Outcome) string {
	line := fmt.Sprintf("%s %-5s %-9s %q", o.FinishedAt.Format("15:04:05"), o.Path, o.State, o.Literal)
	switch {
	case o.Error != nil:
		return line + " " + o.Error.Message
	case o.Answer != "":
		return line + " " + o.Answer
	}
	return line
}
