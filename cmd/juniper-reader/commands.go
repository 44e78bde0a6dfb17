package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/JuniperReader/core/sqlite"
	"github.com/FocuswithJustin/JuniperReader/internal/api"
	"github.com/FocuswithJustin/JuniperReader/internal/catalog"
	"github.com/FocuswithJustin/JuniperReader/internal/library"
	"github.com/FocuswithJustin/JuniperReader/internal/theme"
)

// selectChapter accepts a canonical book number or a book name.
func selectChapter(lib *library.Library, book string, chapter int) (library.PassageSelection, error) {
	if n, err := strconv.Atoi(book); err == nil {
		return lib.Select(n, chapter)
	}
	return lib.Resolve(fmt.Sprintf("%s %d", book, chapter))
}

// BooksCmd lists the catalog.
type BooksCmd struct {
	Testament string `name:"testament" short:"t" help:"Only old or new testament books"`
}

func (c *BooksCmd) Run(g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	books := a.lib.Books()
	if c.Testament != "" {
		t, ok := catalog.ParseTestament(c.Testament)
		if !ok {
			return fmt.Errorf("unknown testament %q (use old or new)", c.Testament)
		}
		books = a.lib.BooksByTestament(t)
	}
	a.styles.books(a.out, books)
	return nil
}

// ChapterCmd prints a chapter.
type ChapterCmd struct {
	Book    string `arg:"" help:"Book name or canonical number"`
	Chapter int    `arg:"" help:"Chapter number"`
}

func (c *ChapterCmd) Run(g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	sel, err := selectChapter(a.lib, c.Book, c.Chapter)
	if err != nil {
		return err
	}
	a.styles.passage(a.out, a.lib.Chapter(context.Background(), sel))
	return nil
}

// CountCmd shows verse counts for every chapter of a book, or for one chapter.
type CountCmd struct {
	Book    string `arg:"" help:"Book name or canonical number"`
	Chapter int    `arg:"" optional:"" help:"Chapter number (default: all chapters)"`
}

func (c *CountCmd) Run(g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	chapter := c.Chapter
	if chapter == 0 {
		chapter = 1
	}
	sel, err := selectChapter(a.lib, c.Book, chapter)
	if err != nil {
		return err
	}
	b, err := a.lib.Book(sel.BookNumber)
	if err != nil {
		return err
	}
	counts, err := a.lib.VerseCounts(context.Background(), sel.BookNumber)
	if err != nil {
		return err
	}
	if c.Chapter > 0 {
		counts = counts[c.Chapter-1 : c.Chapter]
	}
	a.styles.counts(a.out, b, counts)
	return nil
}

// ReadCmd prints a passage.
type ReadCmd struct {
	Ref []string `arg:"" help:"Passage reference, e.g. John 3:16-18"`
}

func (c *ReadCmd) Run(g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.lib.Passage(context.Background(), strings.Join(c.Ref, " "))
	if err != nil {
		return err
	}
	a.styles.passage(a.out, p)
	return nil
}

// RandomCmd prints a random passage.
type RandomCmd struct{}

func (c *RandomCmd) Run(g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.lib.Random(context.Background())
	if err != nil {
		return err
	}
	if p.Unavailable {
		p.Reference = "Random passage"
	}
	a.styles.passage(a.out, p)
	return nil
}

// InfoCmd prints the dataset metadata.
type InfoCmd struct{}

func (c *InfoCmd) Run(g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(a.out, a.styles.title.Render(a.store.Path()))
	a.styles.info(a.out, a.lib.Info(context.Background()))
	return nil
}

// ServeCmd starts the API server.
type ServeCmd struct {
	Port int `name:"port" help:"Port to listen on (default from config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := apiConfig(a, c.Port)
	srv, err := api.New(cfg, a.lib, a.theme, a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Run(egctx)
	})
	eg.Go(func() error {
		// Materialize the database before the first request needs it.
		if err := a.store.Open(egctx); err != nil {
			a.logger.Warn("verse data unavailable, serving degraded results", "error", err)
		}
		return nil
	})
	return eg.Wait()
}

// apiConfig maps the server settings onto the API configuration. A port
// flag wins over the config file.
func apiConfig(a *app, port int) api.Config {
	s := a.cfg.Server
	if port == 0 {
		port = s.Port
	}
	return api.Config{
		Port:              port,
		AllowedOrigins:    s.AllowedOrigins,
		RateLimitRequests: s.RateLimitRequests,
		RateLimitBurst:    s.RateLimitBurst,
		FeedInterval:      time.Duration(s.FeedInterval),
		Auth:              api.AuthConfig{Enabled: s.APIKey != "", APIKey: s.APIKey},
		TLS:               api.TLSConfig{Enabled: s.TLSCert != "", CertFile: s.TLSCert, KeyFile: s.TLSKey},
		Version:           version,
	}
}

// ThemeCmd previews the theme, optionally after applying changes.
type ThemeCmd struct {
	Toggle   bool   `name:"toggle" help:"Toggle light/dark mode"`
	Accent   string `name:"accent" help:"Accent color as hex or palette name"`
	Swatches int    `name:"swatches" help:"Also print a hue wheel with this many colors"`
}

func (c *ThemeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	state, err := cfg.ThemeState()
	if err != nil {
		return err
	}

	if c.Toggle {
		state = state.Apply(theme.ToggleMode{})
	}
	if c.Accent != "" {
		accent, ok := state.Palette.Color(c.Accent)
		if !ok {
			if accent, err = theme.ParseHex(c.Accent); err != nil {
				return err
			}
		}
		state = state.Apply(theme.SetAccent{Accent: accent})
	}

	out := g.writer()
	st := newStyles(state)
	st.scheme(out, state)
	if c.Swatches > 0 {
		fmt.Fprintln(out)
		for _, col := range theme.Swatches(c.Swatches, 0.6, 0.9) {
			fmt.Fprintln(out, swatch(col))
		}
	}
	return nil
}

// ConfigCmd prints the effective configuration.
type ConfigCmd struct{}

func (c *ConfigCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = g.writer().Write(data)
	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(g.writer(), "juniper-reader %s (sqlite: %s, %s)\n", version, info.DriverType, info.Package)
	return nil
}
