package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ibeckermayer/lunchbot/internal/config"
	"github.com/ibeckermayer/lunchbot/internal/digest"
	"github.com/ibeckermayer/lunchbot/internal/menu"
	"github.com/ibeckermayer/lunchbot/internal/notifier"
	"github.com/ibeckermayer/lunchbot/internal/notifier/providers"
	"github.com/ibeckermayer/lunchbot/internal/rating"
	"github.com/ibeckermayer/lunchbot/internal/source"
	"github.com/ibeckermayer/lunchbot/internal/store"
	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Announcer delivers the day's messages.
type Announcer interface {
	Announce(ctx context.Context, messages []string) error
}

// App holds the application state.
type App struct {
	mu sync.RWMutex

	// Immutable after creation.
	store      *store.Store
	patterns   *menu.Patterns
	base       *slog.Logger
	logger     *slog.Logger
	cacheDir   string
	configPath string
	out        io.Writer

	// Mutable fields - use getSnapshot() for concurrent access.
	config    *config.Config
	source    source.Source
	announcer Announcer
	extractor *menu.Extractor
}

// snapshot holds fields that may be replaced by ReloadConfig.
type snapshot struct {
	config    *config.Config
	source    source.Source
	announcer Announcer
	extractor *menu.Extractor
}

func (a *App) getSnapshot() snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return snapshot{
		config:    a.config,
		source:    a.source,
		announcer: a.announcer,
		extractor: a.extractor,
	}
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.base = l
		}
	}
}

// WithCacheDir enables JSON step caches under dir.
func WithCacheDir(dir string) Option {
	return func(a *App) { a.cacheDir = dir }
}

// WithConfigPath sets the file ReloadConfig reads.
func WithConfigPath(path string) Option {
	return func(a *App) { a.configPath = path }
}

// WithOutput sets where dry runs print their messages.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// New creates a new App instance.
func New(cfg *config.Config, st *store.Store, src source.Source, ann Announcer, opts ...Option) *App {
	a := &App{
		store:     st,
		patterns:  menu.DefaultPatterns(),
		base:      slog.New(slog.DiscardHandler),
		out:       os.Stdout,
		config:    cfg,
		source:    src,
		announcer: ann,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.base.With("component", "app")
	a.extractor = a.newExtractor(cfg)
	return a
}

func (a *App) newExtractor(cfg *config.Config) *menu.Extractor {
	return menu.NewExtractor(a.patterns,
		menu.WithLogger(a.base.With("component", "menu")),
		menu.WithWindows(cfg.Extraction.DailyWindowDays, cfg.Extraction.WeeklyWindowDays),
	)
}

// Config returns the configuration in use.
func (a *App) Config() *config.Config {
	return a.getSnapshot().config
}

// RunOptions control a single announcement run.
type RunOptions struct {
	// Date overrides today's date in the configured timezone.
	Date time.Time
	// DryRun prints the messages instead of announcing them and leaves the
	// delivery log untouched.
	DryRun bool
	// Force announces even when the date was announced before.
	Force bool
}

// Run fetches the posts, extracts the day's menu and announces it. A failed
// fetch still announces the "not found" messages before the error is
// returned.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	s := a.getSnapshot()

	loc, err := s.config.Location()
	if err != nil {
		return err
	}
	ref := opts.Date
	if ref.IsZero() {
		ref = time.Now()
	}
	ref = ref.In(loc)
	date := ref.Format(time.DateOnly)

	weekday := menu.WeekdayOf(ref)
	if !weekday.Workday() {
		a.logger.Info("no menu on weekends", "date", date)
		return nil
	}

	if !opts.DryRun && !opts.Force {
		done, err := a.store.Delivered(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to check delivery log: %w", err)
		}
		if done {
			a.logger.Info("menu already announced", "date", date)
			return nil
		}
	}

	a.logger.Info("fetching posts", "date", date)
	posts, fetchErr := s.source.Posts(ctx)
	if fetchErr != nil {
		fetchErr = fmt.Errorf("failed to fetch posts: %w", fetchErr)
		a.logger.Error("fetch failed, announcing without posts", "error", fetchErr)
		posts = nil
	} else {
		a.logger.Info("fetched posts", "count", len(posts))
		a.cacheStep(store.StepPosts, posts)
		a.archive(ctx, posts)
	}

	m := s.extractor.Get(posts, ref)
	a.cacheStep(store.StepMenu, m)

	messages := digest.Build(m, weekday)
	a.cacheStep(store.StepMessage, messages)

	ann := s.announcer
	if opts.DryRun {
		ann = notifier.New(a.base, providers.NewConsoleSender(a.out))
	}
	if err := ann.Announce(ctx, messages); err != nil {
		return errors.Join(fetchErr, fmt.Errorf("failed to announce: %w", err))
	}
	a.logger.Info("menu announced", "date", date, "messages", len(messages))

	if !opts.DryRun {
		if err := a.store.MarkDelivered(ctx, date, len(messages)); err != nil {
			return errors.Join(fetchErr, err)
		}
	}
	return fetchErr
}

func (a *App) archive(ctx context.Context, posts []types.Post) {
	for _, p := range posts {
		if !p.HasText() {
			continue
		}
		if err := a.store.ArchivePost(ctx, p, string(a.patterns.Classify(p.Message))); err != nil {
			a.logger.Warn("failed to archive post", "error", err)
		}
	}
}

// stepCacheKeep is how many outputs of each step are kept on disk.
const stepCacheKeep = 30

func (a *App) cacheStep(step store.StepName, data any) {
	if a.cacheDir == "" {
		return
	}
	path, err := store.SaveStepOutput(a.cacheDir, step, data)
	if err != nil {
		a.logger.Warn("failed to cache step output", "step", step, "error", err)
		return
	}
	a.logger.Debug("cached step output", "step", step, "path", path)

	if n, err := store.PruneSteps(a.cacheDir, step, stepCacheKeep); err != nil {
		a.logger.Warn("failed to prune step cache", "step", step, "error", err)
	} else if n > 0 {
		a.logger.Debug("pruned step cache", "step", step, "removed", n)
	}
}

// Dump fetches up to pages pages of posts, archives them with their
// classification and, when dir is set, writes each menu post to dir as
// YYMMDD-kind.txt. Existing files are left alone. It returns how many posts
// of each kind were seen.
func (a *App) Dump(ctx context.Context, pages int, dir string) (map[menu.Kind]int, error) {
	s := a.getSnapshot()
	loc, err := s.config.Location()
	if err != nil {
		return nil, err
	}

	posts, err := source.History(ctx, s.source, pages)
	if err != nil && len(posts) == 0 {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	if err != nil {
		a.logger.Warn("history incomplete", "error", err, "fetched", len(posts))
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	counts := make(map[menu.Kind]int)
	for _, p := range posts {
		if !p.HasText() {
			continue
		}
		kind := a.patterns.Classify(p.Message)
		counts[kind]++
		if err := a.store.ArchivePost(ctx, p, string(kind)); err != nil {
			return counts, err
		}
		if dir == "" || kind == menu.KindNone {
			continue
		}
		name := p.CreatedTime.In(loc).Format("060102") + "-" + string(kind) + ".txt"
		if err := writeNew(filepath.Join(dir, name), p.Message); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

func writeNew(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// weeklyKinds are the archived post kinds that carry a whole week.
var weeklyKinds = []string{
	string(menu.KindCombined),
	string(menu.KindFirst),
	string(menu.KindThird),
	string(menu.KindHeaderless),
}

// Rate prompts on out for ratings of every unrated archived menu, reading
// answers from in.
func (a *App) Rate(ctx context.Context, in io.Reader, out io.Writer) error {
	s := a.getSnapshot()
	posts, err := a.store.ArchivedPosts(ctx, weeklyKinds...)
	if err != nil {
		return fmt.Errorf("failed to load archived posts: %w", err)
	}
	entries := rating.Entries(s.extractor, posts)
	a.logger.Debug("menus to rate", "entries", len(entries))

	rated, err := rating.NewRater(a.store, in, out).RateAll(ctx, entries)
	a.logger.Info("rating session ended", "rated", rated, "total", len(entries))
	return err
}

// ReloadConfig reloads the configuration from disk and rebuilds the source,
// the notifier and the extractor from it.
func (a *App) ReloadConfig(ctx context.Context) error {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(false); err != nil {
		return err
	}

	src, err := source.New(ctx, cfg.Facebook, a.base.With("component", "source"))
	if err != nil {
		return err
	}
	n, err := notifier.NewFromConfig(cfg, a.base.With("component", "notifier"), false, a.out)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.config = cfg
	a.source = src
	a.announcer = n
	a.extractor = a.newExtractor(cfg)
	a.mu.Unlock()

	a.logger.Info("configuration reloaded", "path", path)
	return nil
}
