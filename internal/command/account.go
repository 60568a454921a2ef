package command

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stolasapp/inotebook/internal/notebook"
)

const minPasswordLen = 8

func accountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account commands",
	}
	cmd.AddCommand(
		accountCreateCommand(),
		accountDeleteCommand(),
	)
	return cmd
}

func accountCreateCommand() *cobra.Command {
	var req notebook.NewAccount
	cmd := &cobra.Command{
		Use:   "create EMAIL",
		Short: "Create account",
		Long: "Creates an account for the provided email. Passwords may be provided via\n" +
			"stdin or through the interactive prompt.",

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

			svc, _, err := newService(cmd.Context(), cfg, logger, store)
			if err != nil {
				return err
			}

			passwd, err := prompt("password: ", true)
			if err != nil {
				return err
			} else if len(passwd) < minPasswordLen {
				return fmt.Errorf("password must be at least %d characters", minPasswordLen)
			}

			req.Email = args[0]
			req.Password = string(passwd)
			session, err := svc.CreateAccount(cmd.Context(), req)
			if err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "created account",
				slog.String("email", session.Account.Email),
				slog.Uint64("id", session.Account.ID),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.FirstName, "first-name", "", "first name of the account holder")
	flags.StringVar(&req.LastName, "last-name", "", "last name of the account holder")
	flags.StringVar(&req.Mobile, "mobile", "", "10 digit mobile number")
	for _, name := range []string{"first-name", "last-name", "mobile"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func accountDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete account",
		Long: "Permanently deletes the account and all of its notes. " +
			"This operation is permanent and irreversible.",
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
			svc, _, err := newService(cmd.Context(), cfg, logger, store)
			if err != nil {
				return err
			}

			logger = logger.With(slog.Uint64("id", id))
			account, err := svc.GetAccount(cmd.Context(), id)
			if err != nil {
				return err
			}
			resp, err := prompt(fmt.Sprintf("Are you sure you want to delete %s? [y|N] ", account.Email), false)
			if !bytes.Equal(resp, []byte{'y'}) || err != nil {
				logger.InfoContext(cmd.Context(), "aborted account deletion")
				return err
			}
			// the operator acts as the account owner
			if err = svc.DeleteAccount(cmd.Context(), id, id); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "account deleted")
			return nil
		},
	}
}
