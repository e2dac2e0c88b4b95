package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lexmodelsv2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/audit"
	"github.com/dmehra/lexassist/internal/catalog"
	"github.com/dmehra/lexassist/internal/claims"
	"github.com/dmehra/lexassist/internal/classifier"
	"github.com/dmehra/lexassist/internal/config"
	"github.com/dmehra/lexassist/internal/db"
	"github.com/dmehra/lexassist/internal/llm"
	"github.com/dmehra/lexassist/internal/policy"
	"github.com/dmehra/lexassist/internal/prompts"
	"github.com/dmehra/lexassist/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the turn decision server",
	Long:  `Starts the HTTP server that receives dialog turn events on /v1/turn and answers with the decided dialog action. Decisions are recorded and browsable under /v1/decisions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort > 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pol, err := buildPolicy(ctx, cfg)
		if err != nil {
			return err
		}

		dbPath := filepath.Join(cfg.DataDir, "lexassist.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		auditStore := audit.NewStore(database)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: true,
		}, pol, auditStore, logger)

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		logger.Info("lexassist starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Port),
			zap.String("provider", string(cfg.Provider)),
			zap.String("model", cfg.Model),
			zap.String("botId", cfg.Bot.ID),
			zap.String("database", dbPath))

		return srv.Start()
	},
}

// buildPolicy wires the catalog, classifier, and claims service behind
// a decision policy.
func buildPolicy(ctx context.Context, cfg *config.Config) (*policy.Policy, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	cat := catalog.NewLexCatalog(
		lexmodelsv2.NewFromConfig(awsCfg),
		cfg.Bot.ID, cfg.Bot.Version, cfg.Bot.LocaleID,
		logger,
	)

	provider, err := llm.NewProvider(ctx, string(cfg.Provider), cfg.Model, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	store := prompts.NewStore(cfg.PromptDir)
	cls := classifier.New(provider, cfg.Model, logger)
	claimSvc := claims.NewService(provider, cfg.Model, store, logger)

	return policy.New(cat, cls, store, claimSvc, logger), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
