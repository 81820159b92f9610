// Package vault builds obsidian:// URLs and hands them to the
// platform's URL-scheme launcher. The vault application owns
// everything past that point.
package vault

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// NoteURL builds the obsidian://open URL for a note inside the vault.
// subdir is the vault folder the note was written to (e.g. "Inbox").
func NoteURL(vaultName, subdir, fileName string) string {
	file := fileName
	if subdir != "" {
		file = subdir + "/" + fileName
	}
	return fmt.Sprintf("obsidian://open?vault=%s&file=%s", escape(vaultName), escape(file))
}

// NewNoteURL builds the obsidian://new URL used to surface a fresh
// error note when a run fails before anything was written.
func NewNoteURL(vaultName, noteName string) string {
	return fmt.Sprintf("obsidian://new?vault=%s&name=%s", escape(vaultName), escape(noteName))
}

// VaultURL builds the plain obsidian://vault URL that just opens the
// vault without targeting a note.
func VaultURL(vaultName string) string {
	return fmt.Sprintf("obsidian://vault/%s", escape(vaultName))
}

// escape percent-encodes a URL component, using %20 for spaces so the
// vault application resolves filenames correctly.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Opener launches URLs through the desktop's scheme handler.
type Opener struct {
	log *zap.Logger
}

// NewOpener creates an Opener.
func NewOpener(log *zap.Logger) *Opener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Opener{log: log.Named("vault")}
}

// Open hands the URL to the platform launcher. A failure here is worth
// logging but never worth failing the run over; the note is already on
// disk.
func (o *Opener) Open(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}

	o.log.Debug("opening vault URL", zap.String("url", rawURL))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch URL handler: %w", err)
	}

	// Release the handler process; the launcher exits on its own.
	go func() { _ = cmd.Wait() }()
	return nil
}
