package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gorm.io/gorm"

	"bookrental/internal/microservices/http-api/models"
	"bookrental/internal/microservices/http-api/service"
)

func newUserCommand(open Opener) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var email, name string
	var admin bool
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, prompting for the password",
		Long: `Create a user account. The password is read from the terminal without
echo, or as the first line of stdin when stdin is not a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			return withApp(open, func(a *app) error {
				ctx := cmd.Context()
				// The account and its admin flag land together or not at all.
				var user *models.User
				err := a.inTx(ctx, func(tx *app) error {
					u, err := tx.auth.Register(ctx, service.RegisterInput{Email: email, Name: name, Password: password})
					if err != nil {
						return fmt.Errorf("create user: %w", err)
					}
					if admin {
						if err := tx.users.SetAdmin(ctx, u.ID, true); err != nil {
							return fmt.Errorf("grant admin, user not created: %w", err)
						}
					}
					user = u
					return nil
				})
				if err != nil {
					return err
				}
				success.Fprintf(cmd.OutOrStdout(), "✓ Created user %d <%s> admin=%t\n", user.ID, user.Email, admin)
				return nil
			})
		},
	}
	createCmd.Flags().StringVarP(&email, "email", "e", "", "Email address (login name)")
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	createCmd.Flags().BoolVar(&admin, "admin", false, "Grant administrator rights")
	createCmd.MarkFlagRequired("email")
	createCmd.MarkFlagRequired("name")

	var promoteEmail string
	var revoke bool
	promoteCmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant (or with --revoke, remove) administrator rights",
		Long: `Change a user's administrator flag. Sessions issued before the change
keep their old flag until the user logs in again, but admin routes check
the database on every request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				ctx := cmd.Context()
				user, err := a.users.FindByEmail(ctx, strings.TrimSpace(promoteEmail))
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("no user with email %q", promoteEmail)
					}
					return err
				}
				if err := a.users.SetAdmin(ctx, user.ID, !revoke); err != nil {
					return err
				}
				success.Fprintf(cmd.OutOrStdout(), "✓ %s admin=%t\n", user.Email, !revoke)
				return nil
			})
		},
	}
	promoteCmd.Flags().StringVarP(&promoteEmail, "email", "e", "", "Email of the user")
	promoteCmd.Flags().BoolVar(&revoke, "revoke", false, "Remove administrator rights instead")
	promoteCmd.MarkFlagRequired("email")

	userCmd.AddCommand(createCmd, promoteCmd)
	return userCmd
}

// readPassword prompts without echo on a terminal and otherwise reads the
// first line of the command's input.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
