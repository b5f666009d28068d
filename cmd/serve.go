package cmd

import (
	"errors"
	"io/fs"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/alexiusacademia/gravdam/internal/server"
	"github.com/alexiusacademia/gravdam/internal/version"
)

var serveEnvFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stability analysis over HTTP",
	Long: `Start the HTTP JSON API.

Routes:
  POST /api/v1/stability          analyze a JSON case
  POST /api/v1/stability/report   analyze and return a PDF calculation sheet
  GET  /healthz                   health check
  GET  /metrics                   Prometheus metrics

Settings come from gravdam.yaml, GRAVDAM_* environment variables and an
optional .env file (server.addr, server.rate_limit, server.burst, log.file).

Examples:
  gravdam serve
  gravdam serve --addr :9000 --log-file /var/log/gravdam/api.log`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Float64("rate-limit", 20, "API requests per second (0 disables)")
	serveCmd.Flags().Int("burst", 40, "Rate limiter burst size")
	serveCmd.Flags().String("log-file", "", "Also write JSON logs to this rotated file")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "Environment file to load before reading settings")

	viper.BindPFlag(keyServerAddr, serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag(keyServerRateLimit, serveCmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag(keyServerBurst, serveCmd.Flags().Lookup("burst"))
	viper.BindPFlag(keyLogFile, serveCmd.Flags().Lookup("log-file"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cli := loggerFromContext(cmd.Context())

	// Variables already set in the environment win over the file.
	if err := godotenv.Load(serveEnvFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cli.Debug("no env file", "file", serveEnvFile)
	}

	v := viper.GetViper()
	logger := server.NewLogger(logConfig(v))
	defer logger.Sync()

	cfg := serverConfig(v)
	logger.Info("starting",
		zap.String("version", version.Version),
		zap.String("addr", cfg.Addr),
		zap.Float64("rate_limit", cfg.RateLimit),
		zap.Int("burst", cfg.Burst),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, logger).ListenAndServe(ctx)
}
