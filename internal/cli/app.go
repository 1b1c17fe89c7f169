package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/lazypower/oracle/internal/assets"
	"github.com/lazypower/oracle/internal/config"
	"github.com/lazypower/oracle/internal/creator"
	"github.com/lazypower/oracle/internal/engine"
	"github.com/lazypower/oracle/internal/feedback"
	"github.com/lazypower/oracle/internal/llm"
	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/poster"
	"github.com/lazypower/oracle/internal/social"
	"github.com/lazypower/oracle/internal/store"
	"github.com/lazypower/oracle/internal/translate"
)

// app holds the wired components shared by serve, generate and post.
type app struct {
	cfg      *config.Config
	db       *store.DB
	prefs    *feedback.Service
	engine   *engine.Engine
	creator  *creator.Generator
	poster   *poster.Poster
	queue    poster.QueueSource
	manifest poster.ManifestSource
}

// loadConfig reads the layered config and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	return cfg, nil
}

// openDB opens the database named by the config, or the default path.
func openDB(cfg *config.Config) (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	return store.Open(dbPath)
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: LLM not configured (%v), readings fall back to local insights\n", err)
		client = llm.Disabled{Err: err}
	} else {
		fmt.Fprintf(os.Stderr, "  llm: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	prophet := llm.NewProphet(client)

	tr, err := translate.New(cfg.Translate.Provider, client)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("translator: %w", err)
	}

	prefs := feedback.NewService(db)
	eng := engine.New(db, prefs, prophet, tr)

	gen := creator.NewGenerator(prophet, creator.NewCardRenderer(cfg.Cards.Size, cfg.Cards.FontPath), cfg.Cards.Dir)

	graph := social.NewGraph(cfg.Social.GraphURL, cfg.Social.GraphVersion, 30*time.Second)
	p := &poster.Poster{
		DB: db,
		Instagram: social.NewInstagram(graph, cfg.Social.InstagramUserID, cfg.Social.AccessToken,
			social.NewPoller(cfg.Social.PollAttempts, cfg.Social.PollInterval)),
		PublicURL:    cfg.Server.PublicURL,
		TestImageURL: cfg.Social.TestImageURL,
	}
	if cfg.Social.FacebookPageID != "" {
		token := cfg.Social.FacebookToken
		if token == "" {
			token = cfg.Social.AccessToken
		}
		p.Facebook = social.NewFacebook(graph, cfg.Social.FacebookPageID, token)
	}
	cld := assets.NewCloudinary(cfg.Assets.UploadURL, cfg.Assets.CloudName, cfg.Assets.APIKey,
		cfg.Assets.APISecret, cfg.Assets.Folder, time.Minute)
	if cld.Configured() {
		p.Uploader = cld
	} else {
		fmt.Fprintln(os.Stderr, "  assets: cloudinary not configured, local cards cannot be published")
	}

	return &app{
		cfg:      cfg,
		db:       db,
		prefs:    prefs,
		engine:   eng,
		creator:  gen,
		poster:   p,
		queue:    poster.QueueSource{DB: db},
		manifest: poster.ManifestSource{DB: db, CardsDir: cfg.Cards.Dir},
	}, nil
}

// postingSource is the source scheduled posts drain.
func (a *app) postingSource() poster.Source {
	if a.cfg.Schedule.Source == "manifest" {
		return a.manifest
	}
	return a.queue
}

func (a *app) Close() error {
	return a.db.Close()
}
