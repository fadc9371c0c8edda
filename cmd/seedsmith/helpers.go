package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/session"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
)

var errInvalidMnemonic = errors.New("invalid mnemonic")

var flagPassphrasePrompt = &cli.BoolFlag{
	Name:  "passphrase-prompt",
	Usage: "Prompt for a passphrase",
}
var flagElectrum = &cli.BoolFlag{
	Name:  "electrum",
	Usage: "Treat the words as an Electrum seed",
}
var flagWords = &cli.IntFlag{
	Name:  "words",
	Usage: "Mnemonic length: 12 or 24 (default from config)",
}

// wordArgs joins the positional arguments and splits them into words, so a
// phrase may be passed quoted or as separate arguments.
func wordArgs(cCtx *cli.Context) []string {
	return mnemonic.Split(strings.Join(cCtx.Args().Slice(), " "))
}

func variantOf(cCtx *cli.Context) seed.Variant {
	if cCtx.Bool(flagElectrum.Name) {
		return seed.Electrum
	}
	return seed.Standard
}

func (e *env) wordCount(cCtx *cli.Context) int {
	if cCtx.IsSet(flagWords.Name) {
		return cCtx.Int(flagWords.Name)
	}
	return e.cfg.Entropy.WordCount
}

// passphrase prompts when --passphrase-prompt is set and returns "" otherwise.
func passphrase(cCtx *cli.Context, confirm bool) (string, error) {
	if !cCtx.Bool(flagPassphrasePrompt.Name) {
		return "", nil
	}
	pass, err := readPassword("Passphrase: ")
	if err != nil {
		return "", err
	}
	if confirm {
		again, err := readPassword("Repeat passphrase: ")
		if err != nil {
			return "", err
		}
		if string(again) != string(pass) {
			return "", errors.New("passphrases do not match")
		}
	}
	return string(pass), nil
}

// enterSeed types words into a fresh pending mnemonic, converts it, applies
// the passphrase and finalizes it in the registry.
func (e *env) enterSeed(words []string, variant seed.Variant, pass string) (*seed.Seed, int, error) {
	if err := e.reg.InitPendingMnemonic(len(words), variant); err != nil {
		return nil, 0, err
	}
	for i, w := range words {
		if err := e.reg.UpdateSlot(w, session.At(i)); err != nil {
			return nil, 0, err
		}
	}
	if _, err := e.reg.ConvertToPendingSeed(); err != nil {
		e.reg.Discard()
		return nil, 0, err
	}
	if pass != "" {
		if err := e.reg.ApplyPassphrase(pass); err != nil {
			return nil, 0, err
		}
	}
	pos, err := e.reg.Finalize()
	if err != nil {
		return nil, 0, err
	}
	s, err := e.reg.Seed(pos)
	if err != nil {
		return nil, 0, err
	}
	return s, pos, nil
}

// printSeed prints a finalized seed with its fingerprint.
func (e *env) printSeed(s *seed.Seed) error {
	fp, err := s.Fingerprint(e.cfg.Network)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Mnemonic:    %s\n", s.Phrase())
	fmt.Fprintf(e.out, "Variant:     %s\n", s.Variant())
	if s.HasPassphrase() {
		fmt.Fprintf(e.out, "Passphrase:  yes\n")
	}
	fmt.Fprintf(e.out, "Fingerprint: %s\n", fp)
	return nil
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
