package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/officelink/internal/adapters/driven/google"
	"github.com/custodia-labs/officelink/internal/adapters/driven/session"
	"github.com/custodia-labs/officelink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/officelink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/officelink/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/officelink/internal/config"
	"github.com/custodia-labs/officelink/internal/core/ports/driven"
	"github.com/custodia-labs/officelink/internal/core/services"
	"github.com/custodia-labs/officelink/internal/logger"
)

// stores bundles one storage backend's port implementations.
type stores struct {
	creds  driven.CredentialStore
	states driven.StateStore
	audit  driven.AuditSink
	close  func() error
	desc   string
}

func buildStores(cfg *config.Config) (*stores, error) {
	if cfg.Backend == "memory" {
		return &stores{
			creds:  memory.NewCredentialStore(),
			states: memory.NewStateStore(),
			audit:  memory.NewAuditSink(),
			close:  func() error { return nil },
			desc:   "memory",
		}, nil
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return &stores{
		creds:  store.CredentialStore(),
		states: store.StateStore(),
		audit:  store.AuditSink(),
		close:  store.Close,
		desc:   store.Path(),
	}, nil
}

// stateSweepInterval bounds how long abandoned consent rows linger.
const stateSweepInterval = 15 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the integration API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Env, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := buildStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	oauth := google.NewOAuthGateway(google.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})

	creds := st.creds
	audit := st.audit

	tokens := services.NewTokenService(creds, oauth, log)
	authFlow := services.NewAuthorizationFlow(creds, st.states, oauth, audit, log)
	mail := services.NewMailService(tokens, google.NewGmailGateway(), audit, log)
	calendar := services.NewCalendarService(tokens, google.NewCalendarGateway(), audit, log)
	drive := services.NewDriveService(tokens, google.NewDriveGateway(), log)
	contacts := services.NewContactsService(tokens, google.NewPeopleGateway(), log)

	verifier := session.NewVerifier(session.Config{
		Secret: cfg.SessionSecret,
		Issuer: cfg.SessionIssuer,
	})

	auditReader, _ := audit.(httpapi.AuditReader)

	server := httpapi.NewServer(
		httpapi.Config{AppName: cfg.AppName},
		httpapi.Services{
			Auth:     authFlow,
			Mail:     mail,
			Calendar: calendar,
			Drive:    drive,
			Contacts: contacts,
		},
		verifier,
		auditReader,
		log,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepStates(ctx, st.states, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(":" + cfg.Port)
	}()
	log.Info("server listening",
		zap.String("port", cfg.Port),
		zap.String("storage", st.desc),
		zap.String("version", version))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sweepStates periodically removes expired consent-flow state rows on
// backends that accumulate them.
func sweepStates(ctx context.Context, states driven.StateStore, log *zap.Logger) {
	sweeper, ok := states.(interface {
		SweepExpired(context.Context) (int64, error)
	})
	if !ok {
		return
	}

	ticker := time.NewTicker(stateSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := sweeper.SweepExpired(ctx)
			if err != nil {
				log.Warn("state sweep failed", zap.Error(err))
				continue
			}
			if swept > 0 {
				log.Debug("swept expired auth states", zap.Int64("count", swept))
			}
		}
	}
}
