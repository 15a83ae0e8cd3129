package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/pipeline"
)

// ErrListen indicates the server could not bind its address.
var ErrListen = errors.New("cannot listen")

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// postSummary is the listing form of a post, without its content tree.
type postSummary struct {
	Slug          string             `json:"slug"`
	Title         string             `json:"title"`
	Excerpt       string             `json:"excerpt"`
	Date          string             `json:"date,omitempty"`
	DisplayDate   string             `json:"displayDate,omitempty"`
	ReadTime      string             `json:"readTime"`
	Categories    []string           `json:"categories"`
	Style         folio.StyleToken   `json:"style"`
	IsSeries      bool               `json:"isSeries"`
	IsSeriesEntry bool               `json:"isSeriesEntry"`
	SeriesSlug    string             `json:"seriesSlug,omitempty"`
	ChapterNumber *float64           `json:"chapterNumber,omitempty"`
	ChapterTitle  string             `json:"chapterTitle,omitempty"`
	Next          *folio.ChapterLink `json:"nextChapter,omitempty"`
	Previous      *folio.ChapterLink `json:"previousChapter,omitempty"`
}

func summarize(posts []*folio.Post) []postSummary {
	out := make([]postSummary, len(posts))
	for i, p := range posts {
		out[i] = postSummary{
			Slug:          p.Slug,
			Title:         p.Title,
			Excerpt:       p.Excerpt,
			Date:          p.Date,
			DisplayDate:   p.DisplayDate,
			ReadTime:      p.ReadTime,
			Categories:    p.Categories,
			Style:         p.Style,
			IsSeries:      p.IsSeries,
			IsSeriesEntry: p.IsSeriesEntry,
			SeriesSlug:    p.SeriesSlug,
			ChapterNumber: p.ChapterNumber,
			ChapterTitle:  p.ChapterTitle,
			Next:          p.NextChapter,
			Previous:      p.PreviousChapter,
		}
	}
	return out
}

// seriesResponse is the body of GET /api/series/:slug.
type seriesResponse struct {
	Overview *postSummary  `json:"overview"`
	Chapters []postSummary `json:"chapters"`
}

// postsAPI serves the assembled posts over HTTP.
type postsAPI struct {
	Router    fiber.Router
	Assembler *folio.Assembler
	Site      config.SiteConfig
	Theme     *theme
	Log       logrus.FieldLogger
}

// Register mounts the JSON API and the HTML post pages.
func (api *postsAPI) Register() {
	api.Router.Get("/api/posts", func(c *fiber.Ctx) error {
		return c.JSON(summarize(api.Assembler.LoadAllPosts(c.UserContext())))
	})

	api.Router.Get("/api/slugs", func(c *fiber.Ctx) error {
		return c.JSON(api.Assembler.Repository().ListSlugs())
	})

	api.Router.Get("/api/posts/:slug", func(c *fiber.Ctx) error {
		post, ok := api.Assembler.LoadPost(c.UserContext(), c.Params("slug"))
		if !ok {
			return notFound(c, "post not found")
		}
		return c.JSON(post)
	})

	api.Router.Get("/api/series/:slug", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		series := c.Params("slug")

		resp := seriesResponse{Chapters: summarize(api.Assembler.SeriesChapters(ctx, series))}
		if overview, ok := api.Assembler.SeriesOverview(ctx, series); ok {
			s := summarize([]*folio.Post{overview})[0]
			resp.Overview = &s
		}
		if resp.Overview == nil && len(resp.Chapters) == 0 {
			return notFound(c, "series not found")
		}
		return c.JSON(resp)
	})

	api.Router.Get(strings.TrimSuffix(api.Site.PostsPath, "/")+"/:slug", func(c *fiber.Ctx) error {
		post, ok := api.Assembler.LoadPost(c.UserContext(), c.Params("slug"))
		if !ok {
			return notFound(c, "post not found")
		}

		page, err := api.renderPage(c.UserContext(), post)
		if err != nil {
			api.Log.WithError(err).WithField(logging.FieldSlug, post.Slug).Error("rendering post page")
			return fiber.ErrInternalServerError
		}
		c.Type("html", "utf-8")
		return c.SendString(page)
	})
}

// renderPage wraps the post article in the theme's page template and
// injects the stylesheet.
func (api *postsAPI) renderPage(ctx context.Context, post *folio.Post) (string, error) {
	var article bytes.Buffer
	if err := writePostHTML(&article, post, api.Site.PostsPath); err != nil {
		return "", err
	}

	page, err := api.Theme.Page.Render(assets.Page{
		Title:     post.Title,
		SiteTitle: api.Site.Title,
		Slug:      post.Slug,
		Article:   template.HTML(article.String()), // #nosec G203 -- escaped by writePostHTML
	})
	if err != nil {
		return "", err
	}

	injector := &pipeline.CSSInjection{}
	return injector.InjectCSS(ctx, page, api.Theme.CSS), nil
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

// newApp builds the fiber application serving a.
func newApp(a *folio.Assembler, cfg *config.Config, logger logrus.FieldLogger) (*fiber.App, error) {
	th, err := loadTheme(cfg.Site)
	if err != nil {
		return nil, err
	}
	logger.WithField("theme", th.Name).WithField("custom", th.Custom).Debug("theme loaded")

	app := fiber.New(fiber.Config{
		AppName:               "go-folio",
		DisableStartupMessage: true,
	})

	api := &postsAPI{
		Router:    app,
		Assembler: a,
		Site:      cfg.Site,
		Theme:     th,
		Log:       logger,
	}
	api.Register()
	return app, nil
}

// runServe serves the artifact until ctx is cancelled. A missing or
// corrupt artifact is logged and the server runs with no posts.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := loadSettings(flags.common, env, func(cfg *config.Config) {
		if flags.artifact != "" {
			cfg.Content.Artifact = flags.artifact
		}
		if flags.addr != "" {
			cfg.Server.Addr = flags.addr
		}
		if flags.workers > 0 {
			cfg.Workers = flags.workers
		}
	})
	if err != nil {
		return err
	}

	repo := folio.OpenRepository(cfg.Content.Artifact, logger)
	app, err := newApp(newAssembler(repo, cfg, logger), cfg, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Addr)
	}()
	logger.WithField("addr", cfg.Server.Addr).WithField("posts", repo.Len()).Info("serving")

	select {
	case err := <-errCh:
		return fmt.Errorf("%w on %s: %w", ErrListen, cfg.Server.Addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve compiled posts as a JSON API and HTML pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Routes:")
	fmt.Fprintln(w, "  GET /api/posts             Post summaries, newest first")
	fmt.Fprintln(w, "  GET /api/posts/:slug       One post with its content tree")
	fmt.Fprintln(w, "  GET /api/series/:slug      Series overview and chapters")
	fmt.Fprintln(w, "  GET /api/slugs             Every slug")
	fmt.Fprintln(w, "  GET <postsPath>/:slug      One post as an HTML page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --artifact <path>     Artifact path (default data/posts.json)")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default :3000)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel post assembly (0 = auto)")
	printCommonUsage(w)
}
