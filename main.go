package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/core"
	"github.com/tutor-orchestrator/server/internal/server"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

var (
	envFile   string
	sessionID string
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "AI tutor orchestrator",
	Long: `Routes student messages to educational tools.

Each turn classifies the message into tools, extracts their parameters,
validates them and either returns ready-to-run tool calls or asks the
student for what is missing.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Run a single turn and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool registry as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, tools.DefaultRegistry().Descriptors())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	askCmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session id (default: a new one)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if core.ParseEnvironment(cfg.Environment).IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	read, write, err := cfg.httpTimeouts()
	if err != nil {
		return err
	}

	svc, closeStores, err := buildService(ctx, cfg)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to build service")
		return err
	}
	defer closeStores()

	srv := server.NewServer(
		server.Config{Addr: cfg.HTTP.Addr, ReadTimeout: read, WriteTimeout: write},
		server.RouterConfig{Handler: server.NewHandler(svc), CORSOrigins: cfg.HTTP.CORSOrigins},
	)
	return srv.Run(ctx)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	svc, closeStores, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	sid := sessionID
	if sid == "" {
		sid = uuid.NewString()
	}

	res, err := svc.Turn(ctx, sid, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", sid)
	return printJSON(cmd, res)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
