package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/session"
	"github.com/lukman83/storefront/internal/validate"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session token",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the session token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.Flags().Int("expires-mins", 0, "Session lifetime in minutes (default 30)")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	form := validate.LoginForm{}
	form.Username, _ = cmd.Flags().GetString("username")
	form.Password, _ = cmd.Flags().GetString("password")
	if err := validate.ValidateLogin(form).Err(); err != nil {
		return err
	}

	ttl := cfg.SessionTTL
	if mins, _ := cmd.Flags().GetInt("expires-mins"); mins > 0 {
		ttl = time.Duration(mins) * time.Minute
	}

	a := newApp()
	res, err := a.client.Login(cmd.Context(), models.Credentials{
		Username:      form.Username,
		Password:      form.Password,
		ExpiresInMins: int(ttl / time.Minute),
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cookie, err := a.session.Save(res.SessionToken(), ttl)
	if err != nil {
		return err
	}
	log.Info().Str("username", res.Username).Time("expires", cookie.Expires).Msg("logged in")
	fmt.Printf("Logged in as %s until %s.\n", res.Username, cookie.Expires.Local().Format(time.Kitchen))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := session.NewStore(cfg.SessionFile).Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	cookie, err := session.NewStore(cfg.SessionFile).Load()
	if errors.Is(err, session.ErrNoSession) {
		fmt.Println("Not logged in.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Logged in; session expires %s.\n", cookie.Expires.Local().Format(time.RFC1123))
	claims, err := session.ParseClaims(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("token is not a readable JWT")
		return nil
	}
	if claims.Username != "" {
		fmt.Printf("  user:  %s\n", claims.Username)
	}
	if claims.Email != "" {
		fmt.Printf("  email: %s\n", claims.Email)
	}
	if claims.ExpiresAt != nil {
		fmt.Printf("  token expires %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}
