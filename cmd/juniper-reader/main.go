// Command juniper-reader reads Bible text from a bundled MyBible database.
// It prints chapters, passages and random verses, and serves the same data
// over a JSON API.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperReader/internal/config"
	"github.com/FocuswithJustin/JuniperReader/internal/library"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/theme"
	"github.com/FocuswithJustin/JuniperReader/internal/versestore"
)

const version = "0.1.0"

// Globals are the flags shared by every command. They override the config
// file and READER_* environment variables.
type Globals struct {
	Config   string `name:"config" short:"c" help:"Config file path" type:"path" default:"juniper-reader.yaml"`
	Asset    string `name:"asset" help:"Bundled verse database (plain or .xz)" type:"path"`
	DataDir  string `name:"data-dir" help:"Directory for the local database copy" type:"path"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	Mode     string `name:"mode" help:"Theme mode (light, dark)"`

	out io.Writer
}

// CLI defines the command-line interface for juniper-reader.
var CLI struct {
	Globals

	Books   BooksCmd   `cmd:"" help:"List the books of the Bible"`
	Chapter ChapterCmd `cmd:"" help:"Print a whole chapter"`
	Count   CountCmd   `cmd:"" help:"Show verse counts for a book or chapter"`
	Read    ReadCmd    `cmd:"" help:"Print a passage such as \"John 3:16-18\""`
	Random  RandomCmd  `cmd:"" help:"Print a random short passage"`
	Info    InfoCmd    `cmd:"" help:"Show the dataset's metadata"`
	Serve   ServeCmd   `cmd:"" help:"Start the JSON API server"`
	Theme   ThemeCmd   `cmd:"" help:"Preview the color theme"`
	Conf    ConfigCmd  `cmd:"" name:"config" help:"Print the effective configuration"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// app is everything a command needs, built from the layered configuration.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *versestore.Store
	lib    *library.Library
	theme  theme.State
	out    io.Writer
	styles styles
}

// loadConfig reads the config file and environment, then applies flags.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Asset != "" {
		cfg.Data.Asset = g.Asset
	}
	if g.DataDir != "" {
		cfg.Data.Dir = g.DataDir
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if g.Mode != "" {
		cfg.Theme.Mode = g.Mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open builds the app. The store is created but not opened; the first
// query materializes the database.
func (g *Globals) open() (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger()
	logging.SetLogger(logger)

	state, err := cfg.ThemeState()
	if err != nil {
		return nil, err
	}

	store := versestore.New(cfg.Location(), cfg.StoreOptions(logger))
	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		lib:    library.New(store, nil, logger),
		theme:  state,
		out:    g.writer(),
		styles: newStyles(state),
	}, nil
}

func (g *Globals) writer() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (a *app) Close() error {
	return a.store.Close()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("juniper-reader"),
		kong.Description("Juniper Reader - Bible text from a bundled MyBible database"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
