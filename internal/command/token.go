package command

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func tokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token ID",
		Short: "Issue a bearer token for an account",
		Long: "Issues a bearer token for an existing account and writes it to stdout.\n" +
			"The token is valid for the configured token validity and cannot be revoked.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account ID %q: %w", args[0], err)
			}
			svc, tokens, err := newService(cmd.Context(), cfg, logger, store)
			if err != nil {
				return err
			}

			session, err := svc.IssueToken(cmd.Context(), id)
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "issued token",
				slog.Uint64("id", id),
				slog.Time("expires", time.Now().Add(tokens.Validity())),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), session.Token)
			return err
		},
	}
}
