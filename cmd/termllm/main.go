package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"termllm/internal/ai"
	"termllm/internal/cache"
	"termllm/internal/chat"
	"termllm/internal/commands"
	"termllm/internal/config"
	"termllm/internal/datadir"
	"termllm/internal/history"
	"termllm/internal/i18n"
	"termllm/internal/maintenance"
	"termllm/internal/rag"
	"termllm/internal/rag/chunker"
	"termllm/internal/rag/embedding"
	"termllm/internal/tui"
	"termllm/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "termllm",
	Short: "Terminal-LLM - chat with an LLM from your terminal",
	Long: `Terminal-LLM is a terminal chat client for LLM APIs with streamed
responses and a local retrieval-augmented knowledge base: load documents with
/load and their most relevant chunks are spliced into the prompt as context.`,
	Version: version.Full(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

var indexCmd = &cobra.Command{
	Use:   "index <file>...",
	Short: "Ingest documents into the knowledge base without starting the UI",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIndex(args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Terminal-LLM %s\n", version.Full())
		fmt.Printf("Go version: %s\n", version.GoVersion)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg       *config.Config
	dirs      *datadir.DataDir
	retrieval *rag.Service
	hist      *history.Store
	respCache *cache.Store
	provider  ai.Provider
}

func setup() (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		dirs, derr := datadir.New("")
		if derr != nil {
			return nil, derr
		}
		cfg, _, err = config.LoadDefault(dirs.ConfigPath())
	}
	if err != nil {
		return nil, err
	}

	dirs, err := datadir.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if err := dirs.EnsureDirs(); err != nil {
		return nil, err
	}

	if err := i18n.SetLanguage(cfg.Language); err != nil {
		log.Printf("[Main] unknown language %q, keeping default", cfg.Language)
	}

	embedder, dims := buildEmbedder(cfg)
	retrieval := rag.NewService(rag.Options{
		Splitter:    chunker.NewSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		Embedder:    embedder,
		Dimensions:  dims,
		SnapshotDir: dirs.KnowledgeDir(),
	})
	if err := retrieval.Load(); err != nil {
		log.Printf("[Main] knowledge snapshot not loaded: %v", err)
	}

	provider, err := ai.New(cfg.Provider, cfg.Chat.Timeout())
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		dirs:      dirs,
		retrieval: retrieval,
		provider:  provider,
	}

	if cfg.Chat.IsHistoryEnabled() {
		a.hist, err = history.Open(dirs.HistoryDBPath())
		if err != nil {
			return nil, err
		}
	}
	if cfg.Cache.IsEnabled() {
		a.respCache, err = cache.Open(dirs.CacheDBPath(), cfg.Cache.TTL())
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) close() {
	if err := a.retrieval.SaveIfDirty(); err != nil {
		log.Printf("[Main] final snapshot save failed: %v", err)
	}
	if a.hist != nil {
		a.hist.Close()
	}
	if a.respCache != nil {
		a.respCache.Close()
	}
}

// buildEmbedder selects the embedding backend from config: the remote
// OpenAI-compatible provider when configured with a key, the local hashing
// embedder otherwise. Both are wrapped for lazy first-use initialization.
func buildEmbedder(cfg *config.Config) (embedding.Embedder, int) {
	notify := func(name string) {
		log.Printf("[RAG] initializing %s embedder (first use)", name)
	}

	if cfg.RAG.Embedder == "openai" && cfg.RAG.OpenAI != nil && cfg.RAG.OpenAI.APIKey != "" {
		oa := *cfg.RAG.OpenAI
		lazy := embedding.NewLazy("openai-"+oa.Model, func() (embedding.Embedder, error) {
			return embedding.NewOpenAI(embedding.OpenAIOptions{
				APIKey:  oa.APIKey,
				BaseURL: oa.BaseURL,
				Model:   oa.Model,
			})
		}, notify)
		dims := 1536
		if oa.Model == "text-embedding-3-large" {
			dims = 3072
		}
		return lazy, dims
	}

	dims := cfg.RAG.EmbedDims
	return embedding.NewLazy("hash", func() (embedding.Embedder, error) {
		return embedding.NewHash(dims), nil
	}, notify), dims
}

func runChat() error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	engine := chat.NewEngine(chat.Options{
		Provider:     a.provider,
		Retrieval:    a.retrieval,
		Cache:        cacheOrNil(a),
		History:      historyOrNil(a),
		SystemPrompt: a.cfg.Chat.SystemPrompt,
		TopK:         a.cfg.RAG.TopK,
	})

	registry := commands.NewDefaultRegistry(commands.Deps{
		Knowledge: a.retrieval,
		History:   historySourceOrNil(a),
		Cache:     cacheSourceOrNil(a),
	})

	runner := maintenance.New(nil)
	if a.cfg.Autosave != nil && a.cfg.Autosave.Enabled {
		if err := runner.ScheduleSnapshot(a.cfg.Autosave.SnapshotSpec, a.retrieval); err != nil {
			log.Printf("[Main] bad snapshot schedule: %v", err)
		}
		if a.respCache != nil {
			if err := runner.ScheduleCacheSweep(a.cfg.Autosave.CacheSweepSpec, a.respCache); err != nil {
				log.Printf("[Main] bad cache sweep schedule: %v", err)
			}
		}
		runner.Start()
		defer runner.Stop()
	}

	return tui.Run(engine, registry)
}

func runIndex(paths []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, path := range paths {
		chunks, err := a.retrieval.Ingest(ctx, path)
		if err != nil {
			if errors.Is(err, chunker.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "skipping %s: not found or unreadable\n", path)
				continue
			}
			return err
		}
		fmt.Printf("%s: %d chunks\n", path, len(chunks))
	}
	fmt.Printf("knowledge base now holds %d chunks\n", a.retrieval.Len())
	return nil
}

// nil-interface helpers: a typed nil pointer inside a non-nil interface
// would defeat the engine's nil checks.

func cacheOrNil(a *app) chat.ResponseCache {
	if a.respCache == nil {
		return nil
	}
	return a.respCache
}

func historyOrNil(a *app) chat.Recorder {
	if a.hist == nil {
		return nil
	}
	return a.hist
}

func historySourceOrNil(a *app) commands.HistorySource {
	if a.hist == nil {
		return nil
	}
	return a.hist
}

func cacheSourceOrNil(a *app) commands.CacheSource {
	if a.respCache == nil {
		return nil
	}
	return a.respCache
}
