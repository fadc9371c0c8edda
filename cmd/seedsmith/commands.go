package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Klingon-tech/seedsmith/config"
	"github.com/Klingon-tech/seedsmith/internal/entropy"
	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/session"
	"github.com/Klingon-tech/seedsmith/internal/shares"
	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
)

// ── dice / coins ────────────────────────────────────────────────────────

func diceCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "dice",
		Usage:     "Build a seed from dice rolls (50 for 12 words, 99 for 24)",
		ArgsUsage: "<rolls>",
		Flags:     []cli.Flag{flagWords, flagPassphrasePrompt},
		Action: func(cCtx *cli.Context) error {
			ent, err := entropy.FromDice(cCtx.Args().First(), e.wordCount(cCtx))
			if err != nil {
				return err
			}
			return e.seedFromEntropy(cCtx, ent)
		},
	}
}

func coinsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "coins",
		Usage:     "Build a seed from coin flips (H/T or 1/0, at least 128 or 256)",
		ArgsUsage: "<flips>",
		Flags:     []cli.Flag{flagWords, flagPassphrasePrompt},
		Action: func(cCtx *cli.Context) error {
			ent, err := entropy.FromCoinFlips(cCtx.Args().First(), e.wordCount(cCtx))
			if err != nil {
				return err
			}
			return e.seedFromEntropy(cCtx, ent)
		},
	}
}

// ── image ───────────────────────────────────────────────────────────────

var flagPreview = &cli.StringSliceFlag{
	Name:  "preview",
	Usage: "Preview frame file, mixed before the final frame (repeatable)",
}

func imageCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "image",
		Usage:     "Build a seed from camera frames mixed with the device serial and time",
		ArgsUsage: "<final-frame>",
		Flags:     []cli.Flag{flagWords, flagPreview, flagPassphrasePrompt},
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return errors.New("image needs exactly one final frame")
			}
			capture := &entropy.Capture{Timestamp: time.Now()}
			defer capture.Wipe()

			serial, err := entropy.ReadDeviceSerial(e.cfg.Entropy.DeviceIDPath)
			if err != nil {
				log.CLI.Warn().Err(err).Msg("Device serial unavailable, mixing without it")
			}
			capture.DeviceID = serial

			for _, path := range cCtx.StringSlice(flagPreview.Name) {
				frame, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read preview frame: %w", err)
				}
				capture.Previews = append(capture.Previews, frame)
			}
			capture.Final, err = os.ReadFile(cCtx.Args().First())
			if err != nil {
				return fmt.Errorf("read final frame: %w", err)
			}

			ent, err := capture.Mix(e.wordCount(cCtx))
			if err != nil {
				return err
			}
			return e.seedFromEntropy(cCtx, ent)
		},
	}
}

func (e *env) seedFromEntropy(cCtx *cli.Context, ent []byte) error {
	defer crypto.Zero(ent)
	words, err := mnemonic.FromEntropy(e.wl, ent)
	if err != nil {
		return err
	}
	pass, err := passphrase(cCtx, true)
	if err != nil {
		return err
	}
	s, _, err := e.enterSeed(words, seed.Standard, pass)
	if err != nil {
		return err
	}
	return e.printSeed(s)
}

// ── final-word ──────────────────────────────────────────────────────────

var flagBits = &cli.StringFlag{
	Name:  "bits",
	Usage: "Free bits of the final word as 0/1 (7 for 12 words, 3 for 24; default all zeros)",
}
var flagSelect = &cli.StringFlag{
	Name:  "select",
	Usage: "Take the free bits from this word instead of --bits",
}

func finalWordCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "final-word",
		Usage:     "Complete 11 or 23 words with a checksum-valid final word",
		ArgsUsage: "<words...>",
		Flags:     []cli.Flag{flagBits, flagSelect, flagPassphrasePrompt},
		Action: func(cCtx *cli.Context) error {
			prefix := wordArgs(cCtx)
			if err := e.reg.InitPendingMnemonic(len(prefix)+1, seed.Standard); err != nil {
				return err
			}
			defer e.reg.Discard()
			for i, w := range prefix {
				if err := e.reg.UpdateSlot(w, session.At(i)); err != nil {
					return err
				}
			}

			var (
				fw  mnemonic.FinalWord
				err error
			)
			if sel := cCtx.String(flagSelect.Name); sel != "" {
				if err := e.reg.UpdateSlot(sel, session.Last()); err != nil {
					return err
				}
				fw, err = e.reg.CalcFinalWordFromSelection()
			} else {
				fw, err = e.reg.CalcFinalWord(cCtx.String(flagBits.Name))
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "Final word:  %s (free bits %s, checksum %s)\n", fw.Word, fw.FreeBits, fw.ChecksumBits)
			if _, err := e.reg.ConvertToPendingSeed(); err != nil {
				return err
			}
			pass, err := passphrase(cCtx, true)
			if err != nil {
				return err
			}
			if pass != "" {
				if err := e.reg.ApplyPassphrase(pass); err != nil {
					return err
				}
			}
			pos, err := e.reg.Finalize()
			if err != nil {
				return err
			}
			s, err := e.reg.Seed(pos)
			if err != nil {
				return err
			}
			return e.printSeed(s)
		},
	}
}

// ── validate / fingerprint / xpub ───────────────────────────────────────

func validateCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a 12 or 24 word mnemonic",
		ArgsUsage: "<words...>",
		Action: func(cCtx *cli.Context) error {
			if !e.reg.Validate(wordArgs(cCtx)) {
				fmt.Fprintln(e.out, "invalid")
				return errInvalidMnemonic
			}
			fmt.Fprintln(e.out, "valid")
			return nil
		},
	}
}

func fingerprintCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "fingerprint",
		Usage:     "Show the master key fingerprint of a seed",
		ArgsUsage: "<words...>",
		Flags:     []cli.Flag{flagElectrum, flagPassphrasePrompt},
		Action: func(cCtx *cli.Context) error {
			pass, err := passphrase(cCtx, false)
			if err != nil {
				return err
			}
			s, _, err := e.enterSeed(wordArgs(cCtx), variantOf(cCtx), pass)
			if err != nil {
				return err
			}
			fp, err := s.Fingerprint(e.cfg.Network)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, fp)
			return nil
		},
	}
}

var flagPath = &cli.StringFlag{
	Name:  "path",
	Usage: "Derivation path, e.g. m/84h/0h/0h (default: the seed's own path, or BIP-84 account 0)",
}

func xpubCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "xpub",
		Usage:     "Show the extended public key of a seed at a derivation path",
		ArgsUsage: "<words...>",
		Flags:     []cli.Flag{flagPath, flagElectrum, flagPassphrasePrompt},
		Action: func(cCtx *cli.Context) error {
			pass, err := passphrase(cCtx, false)
			if err != nil {
				return err
			}
			s, _, err := e.enterSeed(wordArgs(cCtx), variantOf(cCtx), pass)
			if err != nil {
				return err
			}
			path := cCtx.String(flagPath.Name)
			if path == "" && s.DerivationOverride() == "" {
				path, err = seed.AccountPath(seed.PurposeNativeSegwit, e.cfg.Network, 0)
				if err != nil {
					return err
				}
			}
			xpub, err := s.XPub(e.cfg.Network, path)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, xpub)
			return nil
		},
	}
}

// ── shares ──────────────────────────────────────────────────────────────

var flagThreshold = &cli.IntFlag{
	Name:  "threshold",
	Usage: "Shares needed to recover (default from config)",
}
var flagCount = &cli.IntFlag{
	Name:  "count",
	Usage: "Shares to create (default from config)",
}

func sharesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "shares",
		Usage: "Split a seed into shares or recover it from them",
		Subcommands: []*cli.Command{
			{
				Name:      "split",
				Usage:     "Split a standard seed into share phrases, one per line",
				ArgsUsage: "<words...>",
				Flags:     []cli.Flag{flagThreshold, flagCount, flagPassphrasePrompt},
				Action: func(cCtx *cli.Context) error {
					threshold, count := e.cfg.Shares.Threshold, e.cfg.Shares.Count
					if cCtx.IsSet(flagThreshold.Name) {
						threshold = cCtx.Int(flagThreshold.Name)
					}
					if cCtx.IsSet(flagCount.Name) {
						count = cCtx.Int(flagCount.Name)
					}
					s, _, err := e.enterSeed(wordArgs(cCtx), seed.Standard, "")
					if err != nil {
						return err
					}
					pass, err := passphrase(cCtx, true)
					if err != nil {
						return err
					}
					phrases, err := e.reg.SplitSeed(s, threshold, count, pass)
					if err != nil {
						return err
					}
					for _, p := range phrases {
						fmt.Fprintln(e.out, p)
					}
					return nil
				},
			},
			{
				Name:      "recover",
				Usage:     "Recover a seed from share phrases, each passed as one quoted argument",
				ArgsUsage: "<share> <share>...",
				Flags:     []cli.Flag{flagPassphrasePrompt},
				Action: func(cCtx *cli.Context) error {
					phrases := cCtx.Args().Slice()
					if len(phrases) == 0 {
						return shares.ErrIncompleteShareSet
					}
					width := len(mnemonic.Split(phrases[0]))
					if err := e.reg.InitShareSet(width, len(phrases), seed.Standard); err != nil {
						return err
					}
					defer e.reg.Discard()

					for i, phrase := range phrases {
						words := mnemonic.Split(phrase)
						if len(words) != width {
							return fmt.Errorf("share %d: %w", i+1, shares.ErrShareSetMismatch)
						}
						for j, w := range words {
							if err := e.reg.UpdateSlot(w, session.At(j)); err != nil {
								return fmt.Errorf("share %d: %w", i+1, err)
							}
						}
						if err := e.reg.CommitCurrentShare(session.At(i)); err != nil {
							return err
						}
					}

					pass, err := passphrase(cCtx, false)
					if err != nil {
						return err
					}
					if _, err := e.reg.RecoverShares(pass); err != nil {
						return err
					}
					pos, err := e.reg.Finalize()
					if err != nil {
						return err
					}
					s, err := e.reg.Seed(pos)
					if err != nil {
						return err
					}
					return e.printSeed(s)
				},
			},
		},
	}
}

// ── config ──────────────────────────────────────────────────────────────

var flagForce = &cli.BoolFlag{
	Name:  "force",
	Usage: "Overwrite an existing config file",
}

func configCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the config file",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default config file to the data directory",
				Flags: []cli.Flag{flagForce},
				Action: func(cCtx *cli.Context) error {
					path := e.cfg.ConfigFile()
					if _, err := os.Stat(path); err == nil && !cCtx.Bool(flagForce.Name) {
						return fmt.Errorf("%s already exists (use --force to overwrite)", path)
					}
					if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
						return err
					}
					if err := config.WriteDefaultConfig(path, e.cfg.Network); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Wrote %s\n", path)
					return nil
				},
			},
		},
	}
}
