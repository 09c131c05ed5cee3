package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/cache"
	"github.com/desertthunder/reelx/internal/favorites"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/session"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/storage"
	"github.com/desertthunder/reelx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configured bool
	kv         storage.KV
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	open       func(string) error
	prompt     func(context.Context, *models.SignInRequest) error

	session *session.Store
	client  *services.Client
	cache   *cache.Cache
	favs    *favorites.Coordinator
	engine  *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Config skips resolving the --config file when set.
	Config     *shared.Config
	KV         storage.KV // opened from Config.Storage when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Open       func(url string) error
	Prompt     func(ctx context.Context, req *models.SignInRequest) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	configured := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Prompt == nil {
		opts.Prompt = promptCredentials
	}

	return &Runner{
		config:     opts.Config,
		configured: configured,
		kv:         opts.KV,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       opts.Open,
		prompt:     opts.Prompt,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, favoritesCommand, storageCommand, tuiCommand, mockCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves configuration, opens storage and restores the session once per invocation.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if !r.configured {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configured = true
	}

	return ctx, r.init()
}

// After releases the storage database.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// init opens storage when needed and restores the session. It is a no-op once the session exists.
func (r *Runner) init() error {
	if r.session != nil {
		return nil
	}

	if r.kv == nil {
		db, err := shared.OpenMigrated(r.config.Storage.Path, r.config.Storage.MaxOpenConns, r.config.Storage.MaxIdleConns)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		r.db = db
		r.kv = storage.NewStore(db, r.config.Storage.Namespace)
	}

	r.session = session.New(r.kv, r.logger)
	r.session.Initialize()
	r.wire()
	return nil
}

// wire builds the client, query cache and coordinators around the current logger.
func (r *Runner) wire() {
	r.client = services.NewClient(services.ClientOpts{
		BaseURL:    r.config.API.BaseURL,
		Tokens:     storage.NewTokens(r.kv),
		HTTPClient: r.httpClient,
		Timeout:    r.config.API.Timeout(),
		RateLimit:  r.config.API.RateLimit,
		Logger:     r.logger,
	})
	r.cache = cache.New(cache.DefaultTTL, r.logger)
	r.favs = favorites.NewCoordinator(r.client, r.cache, r.logger)
	r.engine = tasks.NewEngine(r.client, r.cache, r.logger)
}

// SetLogger swaps the logger and rewires the services that hold it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.kv != nil {
		r.wire()
	}
}

// requireAuth fails with [shared.ErrNotAuthenticated] unless a session was restored.
func (r *Runner) requireAuth() error {
	if r.session == nil || r.session.Status() != session.StatusAuthenticated {
		return fmt.Errorf("%w: run 'reelx auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

// watch logs progress updates until the returned stop function is called.
func (r *Runner) watch() (chan tasks.ProgressUpdate, func()) {
	prog := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()
	return prog, func() {
		close(prog)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
