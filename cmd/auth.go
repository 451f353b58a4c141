package cmd

import (
	"github.com/spf13/cobra"

	"github.com/okonenko/ncm-grabber/internal/app"
)

var (
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage the NetEase Cloud Music session.

Use 'auth login' for phone credentials, 'auth qr' to scan a QR code with
the mobile app, or 'auth anonymous' for a guest session limited to
standard quality. The session is saved and reused by later commands.`,
	}

	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login with phone number and password",
		Long: `Prompts for a phone number and password and logs in.

The password never touches the disk: only the resulting session cookies
are saved to the session file.`,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthLoginCommand(cmd.Context(), appConfig)
		},
	}

	authAnonymousCmd = &cobra.Command{
		Use:   "anonymous",
		Short: "Register a guest session",
		Long: `Registers an anonymous guest session.

Guest sessions can download standard quality audio without an account.`,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthAnonymousCommand(cmd.Context(), appConfig)
		},
	}

	authQRCmd = &cobra.Command{
		Use:   "qr",
		Short: "Login by scanning a QR code",
		Long: `Renders a QR code in the terminal.

Scan it with the NetEase Cloud Music mobile app and confirm the login
on the phone. The command polls until the login is confirmed or the
code expires.`,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthQRCommand(cmd.Context(), appConfig)
		},
	}

	authLogoutCmd = &cobra.Command{
		Use:              "logout",
		Short:            "Remove the saved session",
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthLogoutCommand(cmd.Context(), appConfig)
		},
	}

	authStatusCmd = &cobra.Command{
		Use:              "status",
		Short:            "Show the current session and account",
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthStatusCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	authCmd.AddCommand(authLoginCmd, authAnonymousCmd, authQRCmd, authLogoutCmd, authStatusCmd)

	rootCmd.AddCommand(authCmd)
}
