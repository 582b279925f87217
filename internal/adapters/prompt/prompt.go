// Package prompt asks the operator for input the flags did not provide.
package prompt

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Interactive reports whether stdin and stderr are both terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// Passphrase asks for the passphrase of the keystore at path without echoing it.
func Passphrase(path string) (string, error) {
	var pass string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Keystore passphrase").
				Description(path).
				EchoMode(huh.EchoModePassword).
				Value(&pass),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("passphrase prompt cancelled: %w", err)
	}
	return pass, nil
}

// ConfirmLive asks the operator to approve sending transactions.
func ConfirmLive(signer, target string, items int) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Send up to %d transaction(s) to %s?", items, target)).
				Description(fmt.Sprintf("Signed by %s. Every confirmed transaction spends gas and cannot be undone.", signer)).
				Affirmative("Send").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt cancelled: %w", err)
	}
	return ok, nil
}
