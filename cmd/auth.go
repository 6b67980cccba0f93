package cmd

import (
	"errors"
	"fmt"
	"strings"

	"cadence/internal/api"
	"cadence/internal/cli"
	"cadence/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the data service",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the data service",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the local session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	var email, password string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Validate(validateEmail).
			Value(&email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(nonEmpty("password")).
			Value(&password),
	))
	if err := form.Run(); err != nil {
		return err
	}

	cfg := loadConfig()
	client := api.NewClient(config.ServerURL(cfg), "")

	token, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return loginError(err)
	}

	return saveSession(token, email)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	var name, email, password, confirm string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Validate(nonEmpty("name")).
			Value(&name),
		huh.NewInput().
			Title("Email").
			Validate(validateEmail).
			Value(&email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if len(s) < 8 {
					return errors.New("password must be at least 8 characters")
				}
				return nil
			}).
			Value(&password),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	cfg := loadConfig()
	client := api.NewClient(config.ServerURL(cfg), "")

	token, err := client.Register(cmd.Context(), name, email, password)
	if err != nil {
		return loginError(err)
	}

	return saveSession(token, email)
}

func runLogout(_ *cobra.Command, _ []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if err := cache.ClearToken(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	fmt.Println("  Logged out.")
	return nil
}

func saveSession(token, email string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if err := cache.SaveToken(token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("  Logged in as %s\n", email)
	if exp, err := api.TokenExpiry(token); err == nil {
		fmt.Printf("  Session valid until %s\n", cli.FormatDate(exp))
	}
	return nil
}

func loginError(err error) error {
	if errors.Is(err, api.ErrUnavailable) {
		return fmt.Errorf("data service unreachable, check the server URL: %w", err)
	}
	return err
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "@") {
		return errors.New("enter a valid email address")
	}
	return nil
}

func nonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
