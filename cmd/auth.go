package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyforge/internal/study"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		fromStdin, _ := cmd.Flags().GetBool("password-stdin")

		p := newPrompter(cmd)
		username, err := p.value(username, "Username: ")
		if err != nil {
			return err
		}
		password, err := p.password("Password: ", fromStdin)
		if err != nil {
			return err
		}
		if username == "" || password == "" {
			return errors.New("username and password are required")
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		user, err := e.client.Login(commandContext(cmd), username, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", user.DisplayName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		if !e.session.Get().Valid() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		if err := e.client.Logout(commandContext(cmd)); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		username, _ := f.GetString("username")
		email, _ := f.GetString("email")
		first, _ := f.GetString("first-name")
		last, _ := f.GetString("last-name")
		fromStdin, _ := f.GetBool("password-stdin")

		p := newPrompter(cmd)
		var err error
		if username, err = p.value(username, "Username: "); err != nil {
			return err
		}
		if email, err = p.value(email, "Email: "); err != nil {
			return err
		}
		password, err := p.password("Password: ", fromStdin)
		if err != nil {
			return err
		}
		if username == "" || email == "" || password == "" {
			return errors.New("username, email and password are required")
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		msg, err := e.client.Signup(commandContext(cmd), study.SignupRequest{
			Username:  username,
			Email:     email,
			Password:  password,
			FirstName: first,
			LastName:  last,
		})
		if err != nil {
			return err
		}
		if msg == "" {
			msg = "Account created."
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		fmt.Fprintln(cmd.OutOrStdout(), "Run `studyforge login` to sign in.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		if !e.session.Get().Valid() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		u, err := e.client.CurrentUser(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User:      %s\n", u.Username)
		fmt.Fprintf(out, "Name:      %s\n", u.DisplayName())
		fmt.Fprintf(out, "Email:     %s\n", u.Email)
		if len(u.Roles) > 0 {
			fmt.Fprintf(out, "Roles:     %s\n", strings.Join(u.Roles, ", "))
		}
		fmt.Fprintf(out, "Server:    %s\n", e.cfg.APIURL)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Change your name, email or password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var u study.ProfileUpdate
		u.FirstName, _ = f.GetString("first-name")
		u.LastName, _ = f.GetString("last-name")
		u.Email, _ = f.GetString("email")
		if fromStdin, _ := f.GetBool("password-stdin"); fromStdin {
			pw, err := newPrompter(cmd).password("", true)
			if err != nil {
				return err
			}
			if pw == "" {
				return errors.New("new password is empty")
			}
			u.Password = pw
		}
		if u.Empty() {
			return errors.New("nothing to change: pass --first-name, --last-name, --email or --password-stdin")
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		user, err := e.client.UpdateCurrentUser(commandContext(cmd), u)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s <%s>\n", user.DisplayName(), user.Email)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	signupCmd.Flags().StringP("username", "u", "", "Username (prompted when omitted)")
	signupCmd.Flags().String("email", "", "Email address (prompted when omitted)")
	signupCmd.Flags().String("first-name", "", "First name")
	signupCmd.Flags().String("last-name", "", "Last name")
	signupCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	profileCmd.Flags().String("first-name", "", "New first name")
	profileCmd.Flags().String("last-name", "", "New last name")
	profileCmd.Flags().String("email", "", "New email address")
	profileCmd.Flags().Bool("password-stdin", false, "Read a new password from stdin")
}
