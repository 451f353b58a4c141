package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mdp/qrterminal/v3"

	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/logger"
	"github.com/okonenko/ncm-grabber/internal/session"
)

// qrPollInterval is how often the QR login ticket is polled.
const qrPollInterval = 2 * time.Second

// ExecuteAuthLoginCommand executes the auth login command.
// It prompts for phone credentials, authenticates, and persists the session.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config) {
	store := newSessionStore(ctx, cfg)

	phone := promptLine("Phone number: ")
	password := promptLine("Password: ")

	if phone == "" || password == "" {
		logger.Fatalf(ctx, "Phone number and password must not be empty")
		return
	}

	if err := store.LoginWithCredentials(ctx, phone, password); err != nil {
		logger.Fatalf(ctx, "Login failed: %v", err)
		return
	}

	logger.Info(ctx, "Login successful, session saved.")
	printProfile(ctx, store)
	printDownloadHint(ctx)
}

// ExecuteAuthAnonymousCommand executes the auth anonymous command.
// It registers a guest session and persists it.
func ExecuteAuthAnonymousCommand(ctx context.Context, cfg *config.Config) {
	store := newSessionStore(ctx, cfg)

	if err := store.LoginAnonymous(ctx); err != nil {
		logger.Fatalf(ctx, "Guest registration failed: %v", err)
		return
	}

	logger.Info(ctx, "Guest session registered and saved.")
	logger.Info(ctx, "Guest sessions are limited to standard quality downloads.")
	printDownloadHint(ctx)
}

// ExecuteAuthQRCommand executes the auth qr command.
// It renders a QR code in the terminal and polls until the login is
// confirmed on the phone, the code expires, or the command is canceled.
func ExecuteAuthQRCommand(ctx context.Context, cfg *config.Config) {
	store := newSessionStore(ctx, cfg)

	ticket, err := store.BeginQRLogin(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Failed to request a QR login ticket: %v", err)
		return
	}

	fmt.Println("Scan this QR code with the mobile app:")
	fmt.Println()
	qrterminal.GenerateHalfBlock(ticket.URL, qrterminal.L, os.Stdout)
	fmt.Println()
	fmt.Printf("Or open this link on a logged-in device: %s\n", ticket.URL)
	fmt.Println()

	logger.Info(ctx, "Waiting for the QR code to be scanned...")

	var scannedAnnounced bool

	ticker := time.NewTicker(qrPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Warn(ctx, "QR login canceled.")
			return
		case <-ticker.C:
		}

		status, pollErr := store.PollQRLogin(ctx, ticket)
		if pollErr != nil {
			logger.Fatalf(ctx, "QR login failed: %v", pollErr)
			return
		}

		switch status {
		case session.QRStatusPending:
		case session.QRStatusScanned:
			if !scannedAnnounced {
				logger.Info(ctx, "QR code scanned, confirm the login on your phone.")

				scannedAnnounced = true
			}
		case session.QRStatusExpired:
			logger.Fatalf(ctx, "The QR code expired, run 'ncm-grabber auth qr' again")
			return
		case session.QRStatusConfirmed:
			logger.Info(ctx, "QR login confirmed, session saved.")
			printProfile(ctx, store)
			printDownloadHint(ctx)

			return
		}
	}
}

// ExecuteAuthLogoutCommand executes the auth logout command.
func ExecuteAuthLogoutCommand(ctx context.Context, cfg *config.Config) {
	store := newSessionStore(ctx, cfg)

	if err := store.Logout(); err != nil {
		logger.Fatalf(ctx, "Logout failed: %v", err)
		return
	}

	logger.Info(ctx, "Session removed.")
}

// ExecuteAuthStatusCommand executes the auth status command.
func ExecuteAuthStatusCommand(ctx context.Context, cfg *config.Config) {
	store := newSessionStore(ctx, cfg)

	if !store.HasSession() {
		logger.Info(ctx, "Not logged in.")
		logger.Info(ctx, "Run 'ncm-grabber auth login', 'auth qr', or 'auth anonymous' to create a session.")

		return
	}

	profile, err := store.Profile(ctx)
	if err != nil {
		logger.Infof(ctx, "Session file present at '%s', but the profile could not be fetched: %v",
			cfg.SessionFile, err)
		logger.Info(ctx, "The session may be anonymous or expired.")

		return
	}

	logger.Infof(ctx, "Logged in as '%s'", profile.Nickname)

	if profile.VIPType > 0 {
		logger.Infof(ctx, "VIP subscription active (tier %d).", profile.VIPType)
	} else {
		logger.Info(ctx, "No VIP subscription, high quality tiers may be unavailable.")
	}
}

// newSessionStore builds the session store or exits.
func newSessionStore(ctx context.Context, cfg *config.Config) *session.Store {
	store, err := session.NewStore(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize session store: %v", err)
	}

	return store
}

// printProfile logs the account greeting after a successful login.
func printProfile(ctx context.Context, store *session.Store) {
	profile, err := store.Profile(ctx)
	if err != nil {
		logger.Debugf(ctx, "Failed to fetch profile after login: %v", err)
		return
	}

	logger.Infof(ctx, "Welcome, %s!", profile.Nickname)
}

// printDownloadHint logs usage examples after authentication.
func printDownloadHint(ctx context.Context) {
	logger.Info(ctx, "")
	logger.Info(ctx, "Try downloading a song:")
	logger.Info(ctx, "ncm-grabber https://music.163.com/song?id=347230")
	logger.Info(ctx, "")
	logger.Info(ctx, "Or search by keyword:")
	logger.Info(ctx, "ncm-grabber \"hotel california\"")
}

// promptLine reads a single trimmed line from standard input.
func promptLine(label string) string {
	fmt.Print(label)

	// A read error leaves a partial line, which is still worth trimming.
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')

	return strings.TrimSpace(line)
}
