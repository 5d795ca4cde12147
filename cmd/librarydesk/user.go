package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
	"github.com/librarydesk/librarydesk/internal/core/service"
	mongorepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/mongo"
	redisrepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/redis"
)

type newUser struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
}

func (u newUser) validate() error {
	switch {
	case u.Email == "":
		return errors.New("--email is required")
	case u.FirstName == "" || u.LastName == "":
		return errors.New("--first-name and --last-name are required")
	case u.Role != domain.RoleMember && u.Role != domain.RoleAdmin:
		return fmt.Errorf("--role must be %q or %q", domain.RoleMember, domain.RoleAdmin)
	}
	return nil
}

func newCreateUserCmd(a *app) *cobra.Command {
	var u newUser
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register an account with its profile, prompting for the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := u.validate(); err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			tty := cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd()))
			password, err := readPassword(cmd.ErrOrStderr(), in, tty, "Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			confirm, err := readPassword(cmd.ErrOrStderr(), in, tty, "Confirm password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			st, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer st.close(a)

			auth := service.NewAuthService(
				mongorepo.NewAuthRepository(st.db),
				redisrepo.NewRevocationList(st.redis),
				a.cfg.JWTSecret,
				a.cfg.TokenTTL,
			)
			profiles := mongorepo.NewProfileRepository(st.db)
			sink := ports.ErrorSinkFunc(func(f *domain.Failure) {
				a.log.Warn().Err(f.Err).Str("kind", string(f.Kind)).Msg(f.Op)
			})
			store := service.NewSessionStore(auth, profiles, "", sink, a.log)

			id, err := createUser(cmd.Context(), store, profiles, u, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s <%s> (%s), id %s\n", u.FirstName, u.LastName, u.Email, u.Role, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Email, "email", "", "email to sign in with")
	cmd.Flags().StringVar(&u.FirstName, "first-name", "", "profile first name")
	cmd.Flags().StringVar(&u.LastName, "last-name", "", "profile last name")
	cmd.Flags().StringVar(&u.Role, "role", domain.RoleMember, "profile role: member or admin")
	return cmd
}

// createUser runs the sign-up saga, then signs in once to learn the new
// identity so a non-default role can be applied. The session is signed out
// again before returning.
func createUser(ctx context.Context, store ports.Session, profiles ports.ProfileRepository, u newUser, password string) (string, error) {
	if err := store.SignUp(ctx, u.Email, password, u.FirstName, u.LastName); err != nil {
		return "", err
	}
	if err := store.SignIn(ctx, u.Email, password); err != nil {
		return "", err
	}
	defer func() { _ = store.SignOut(context.WithoutCancel(ctx)) }()

	st := store.LoadCurrentUser(ctx)
	if !st.Authenticated() {
		return "", fmt.Errorf("load new user %s: %w", u.Email, domain.ErrProfileNotFound)
	}
	if u.Role != domain.RoleMember {
		if err := profiles.SetRole(ctx, st.Identity.ID, u.Role); err != nil {
			return st.Identity.ID, fmt.Errorf("user %s was created as %s; set role %s: %w",
				st.Identity.ID, domain.RoleMember, u.Role, err)
		}
	}
	return st.Identity.ID, nil
}

// readPassword reads a password without echo from a terminal, and a plain
// line from in otherwise so the command can be scripted. Only the line
// terminator is stripped.
func readPassword(prompt io.Writer, in *bufio.Reader, tty bool, label string) (string, error) {
	fmt.Fprint(prompt, label)
	if tty {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
