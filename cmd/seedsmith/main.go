// seedsmith builds, checks and recovers mnemonic seeds offline.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/Klingon-tech/seedsmith/config"
	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/session"
	"github.com/Klingon-tech/seedsmith/internal/storage"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

const version = "0.3.0"

var flagConfig = &cli.StringFlag{
	Name:  "config",
	Usage: "Config file path (default: <datadir>/seedsmith.conf)",
}
var flagDataDir = &cli.StringFlag{
	Name:  "datadir",
	Usage: "Data directory path",
}
var flagNetwork = &cli.StringFlag{
	Name:  "network",
	Usage: "Network for fingerprints and extended keys: main, test, regtest or signet",
}
var flagLanguage = &cli.StringFlag{
	Name:  "language",
	Usage: "Wordlist language code",
}
var flagBackend = &cli.StringFlag{
	Name:  "backend",
	Usage: "Registry store: memory or badger",
}
var flagLogLevel = &cli.StringFlag{
	Name:  "log-level",
	Usage: "Log level: debug, info, warn or error",
}
var flagLogJSON = &cli.BoolFlag{
	Name:  "log-json",
	Usage: "Log as JSON",
}

// env is the state shared by every command of one invocation.
type env struct {
	cfg *config.Config
	wl  *wordlist.WordList
	reg *session.Registry
	out io.Writer
}

func main() {
	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fatal("%v", err)
	}
}

func newApp(out io.Writer) *cli.App {
	e := &env{out: out}

	return &cli.App{
		Name:    "seedsmith",
		Usage:   "build, check and recover mnemonic seeds offline",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			flagConfig,
			flagDataDir,
			flagNetwork,
			flagLanguage,
			flagBackend,
			flagLogLevel,
			flagLogJSON,
		},
		Before: e.setup,
		After:  e.teardown,
		Commands: []*cli.Command{
			diceCommand(e),
			coinsCommand(e),
			imageCommand(e),
			finalWordCommand(e),
			validateCommand(e),
			fingerprintCommand(e),
			xpubCommand(e),
			sharesCommand(e),
			configCommand(e),
		},
	}
}

// setup resolves configuration (defaults, then file, then flags), starts
// logging and opens the registry.
func (e *env) setup(cCtx *cli.Context) error {
	cfg := config.Default(seed.Mainnet)
	if cCtx.IsSet(flagDataDir.Name) {
		cfg.DataDir = cCtx.String(flagDataDir.Name)
	}

	path := cfg.ConfigFile()
	if cCtx.IsSet(flagConfig.Name) {
		path = cCtx.String(flagConfig.Name)
	}
	values, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if err := config.ApplyFileConfig(cfg, values); err != nil {
		return err
	}

	if cCtx.IsSet(flagDataDir.Name) {
		cfg.DataDir = cCtx.String(flagDataDir.Name)
	}
	if cCtx.IsSet(flagNetwork.Name) {
		cfg.Network = seed.Network(cCtx.String(flagNetwork.Name))
	}
	if cCtx.IsSet(flagLanguage.Name) {
		cfg.Wordlist.Language = cCtx.String(flagLanguage.Name)
	}
	if cCtx.IsSet(flagBackend.Name) {
		cfg.Storage.Backend = cCtx.String(flagBackend.Name)
	}
	if cCtx.IsSet(flagLogLevel.Name) {
		cfg.Log.Level = cCtx.String(flagLogLevel.Name)
	}
	if cCtx.IsSet(flagLogJSON.Name) {
		cfg.Log.JSON = cCtx.Bool(flagLogJSON.Name)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logFile := cfg.Log.File
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(cfg.LogsDir(), logFile)
		if err := os.MkdirAll(cfg.LogsDir(), 0700); err != nil {
			return fmt.Errorf("create logs dir: %w", err)
		}
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	wl, err := wordlist.Load(wordlist.Language(cfg.Wordlist.Language))
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.Storage.Backend)
	if err != nil {
		return err
	}
	reg, err := session.New(wl, db)
	if err != nil {
		db.Close()
		return err
	}

	e.cfg, e.wl, e.reg = cfg, wl, reg
	log.CLI.Debug().
		Str("network", cfg.Network.String()).
		Str("language", cfg.Wordlist.Language).
		Str("backend", cfg.Storage.Backend).
		Msg("Session opened")
	return nil
}

func (e *env) teardown(*cli.Context) error {
	if e.reg == nil {
		return nil
	}
	err := e.reg.Close()
	e.reg = nil
	return err
}
