package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/freelancer-admin/internal/db"
	"github.com/terraincognita07/freelancer-admin/internal/security"
	"github.com/terraincognita07/freelancer-admin/internal/services"
)

const (
	temporaryPasswordLength = 12
	minPasswordLength       = 8
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)
)

func openSettingsService(dbPath string) (*services.SettingsService, func(), error) {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	repositories := db.NewRepositories(database)
	return services.NewSettingsService(repositories.Settings), closeDB, nil
}

// RunResetPasswordCommand replaces the login password with a random one,
// turns the login gate on and prints the new password.
func RunResetPasswordCommand(dbPath string, out io.Writer) error {
	settings, closeDB, err := openSettingsService(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}
	if err := settings.SetLoginPassword(temporaryPassword, true); err != nil {
		return fmt.Errorf("store temporary password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "Change it from the settings page after logging in.")
	return nil
}

func RunSetPasswordCommand(dbPath string, prompt PasswordPrompt, out io.Writer) error {
	password, err := prompt("New password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirmation, err := prompt("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	trimmed := strings.TrimSpace(string(password))
	if len(trimmed) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if trimmed != strings.TrimSpace(string(confirmation)) {
		return ErrPasswordMismatch
	}

	settings, closeDB, err := openSettingsService(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := settings.SetLoginPassword(trimmed, false); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	fmt.Fprintln(out, "Password updated")
	return nil
}
