package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"careerpath_portal/models"
	"careerpath_portal/policy"
	"careerpath_portal/validation"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string

	registerReq  models.RegisterRequest
	registerYear int

	whoamiCheck bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session for later commands",
	Long: `Logs in to the forum. The password is read from the first line of
stdin when --password is not given.`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a student or alumni account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the saved session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user and what they may do",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("username")

	f := registerCmd.Flags()
	f.StringVar(&registerReq.Username, "username", "", "username, letters, digits and underscores")
	f.StringVar(&registerReq.Email, "email", "", "email address")
	f.StringVar(&registerReq.Password, "password", "", "password, at least 8 characters")
	f.StringVar(&registerReq.Password2, "confirm-password", "", "the password again")
	f.StringVar(&registerReq.Role, "role", "", "student or alumni")
	f.StringVar(&registerReq.FirstName, "first-name", "", "first name")
	f.StringVar(&registerReq.LastName, "last-name", "", "last name")
	f.IntVar(&registerYear, "graduation-year", 0, "graduation year")
	f.StringVar(&registerReq.Department, "department", "", "department")
	f.StringVar(&registerReq.Bio, "bio", "", "short bio")

	whoamiCmd.Flags().BoolVar(&whoamiCheck, "check", false, "ask the forum whether the token is still accepted instead of refreshing the profile")
}

func readLine(r io.Reader) string {
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	req := models.LoginRequest{Username: loginUsername, Password: loginPassword}
	if req.Password == "" {
		req.Password = readLine(cmd.InOrStdin())
	}
	if err := validation.Login(&req); err != nil {
		return err
	}

	s, err := e.sessions.Login(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", s.User.Username, policy.ResolveDisplayRole(s.User))
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	req := registerReq
	if registerYear != 0 {
		year := registerYear
		req.GraduationYear = &year
	}
	if err := validation.Register(&req); err != nil {
		return err
	}

	s, err := e.sessions.Register(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are logged in as %s.\n", s.User.Username, policy.ResolveDisplayRole(s.User))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	s, err := e.current(cmd.Context())
	if err != nil {
		return err
	}
	if err := e.sessions.Logout(cmd.Context(), s); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.current(ctx)
	if err != nil {
		return err
	}

	if whoamiCheck {
		resp, err := e.api.CheckAuth(ctx, s.Token)
		if err = e.check(ctx, s, err); err != nil {
			return err
		}
		if !resp.IsAuthenticated {
			e.sessions.Invalidate(ctx, s)
			return errNotLoggedIn
		}
		if resp.User != nil {
			s.User = resp.User
		}
		printWhoami(cmd.OutOrStdout(), s.User)
		return nil
	}

	refreshed, err := e.sessions.Refresh(ctx, s)
	if err != nil {
		return e.check(ctx, s, err)
	}
	printWhoami(cmd.OutOrStdout(), refreshed.User)
	return nil
}
