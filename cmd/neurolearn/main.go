package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajaysvasan/neurolearn/internal/analysis"
	"github.com/ajaysvasan/neurolearn/internal/feedback"
	"github.com/ajaysvasan/neurolearn/internal/handler"
	appI18n "github.com/ajaysvasan/neurolearn/internal/i18n"
	"github.com/ajaysvasan/neurolearn/internal/model"
	"github.com/ajaysvasan/neurolearn/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "neurolearn",
		Short: "Negative-marking performance analysis for GATE practice tests",
	}

	serve := serveCmd()
	root.AddCommand(serve, analyzeCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `neurolearn --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP analysis server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "neurolearn.db", "SQLite database path")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL for coach feedback")
	f.String("llm-key", "ollama", "API key for the feedback model")
	f.String("llm-model", "llama3.2", "Feedback model name")
	f.Bool("no-llm", false, "Disable model-generated feedback (templated feedback only)")
	f.StringP("lang", "l", "en", "Console language (en, hi)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a test attempts JSON file and print the report",
		RunE:  runAnalyze,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "Path to attempts JSON file (required)")
	f.StringP("format", "f", "summary", "Output format (summary, json, both)")
	f.String("db", "", "SQLite database path to store the result (empty = do not store)")
	f.StringP("lang", "l", "en", "Console language (en, hi)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored test results as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "neurolearn.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.StringP("lang", "l", "en", "Console language (en, hi)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("NEUROLEARN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("neurolearn")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/neurolearn")
	v.AddConfigPath("/etc/neurolearn")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	var fb *feedback.Client
	if !v.GetBool("no-llm") {
		fb = feedback.New(
			v.GetString("llm-url"),
			v.GetString("llm-key"),
			v.GetString("llm-model"),
		)
	}

	h, err := handler.New(db, fb)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"llm_enabled", !v.GetBool("no-llm"),
		"model", v.GetString("llm-model"),
	)
	return http.ListenAndServe(addr, r)
}

// analyzeInput is the shape of the analyze command's input file. A bare JSON
// array of attempt records is also accepted.
type analyzeInput struct {
	Source     string                `json:"source"`
	Difficulty model.Difficulty      `json:"difficulty"`
	Attempts   []model.AttemptRecord `json:"attempts"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(v.GetString("lang")))

	data, err := os.ReadFile(v.GetString("input"))
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var input analyzeInput
	if err := json.Unmarshal(data, &input); err != nil {
		// Fall back to a bare array of records.
		if arrErr := json.Unmarshal(data, &input.Attempts); arrErr != nil {
			return fmt.Errorf("parse input: %w", err)
		}
	}
	if len(input.Attempts) == 0 {
		return fmt.Errorf("no attempts in %s", v.GetString("input"))
	}

	attempts := make([]model.Attempt, 0, len(input.Attempts))
	for i, rec := range input.Attempts {
		a, err := rec.Normalize(i)
		if err != nil {
			slog.Warn("malformed attempt record", "error", err)
		}
		attempts = append(attempts, a)
	}

	rep, err := analysis.New().Analyze(attempts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	fb := feedback.Basic(rep)

	format := strings.ToLower(v.GetString("format"))
	if format == "json" || format == "both" {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Println(string(out))
	}
	if format == "summary" || format == "both" {
		renderSummary(ctx, os.Stdout, rep, fb)
	}

	if dbPath := v.GetString("db"); dbPath != "" {
		db, err := store.New(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		sess := model.TestSession{
			Source:       input.Source,
			Difficulty:   input.Difficulty,
			ScorePercent: rep.MarkingSummary.PercentageScore,
		}
		if sess.Difficulty == "" {
			sess.Difficulty = model.DifficultyMedium
		}
		if rep.Grade != nil {
			sess.LetterGrade = rep.Grade.LetterGrade
		}
		id, err := db.CreateSession(sess, attempts, rep)
		if err != nil {
			return fmt.Errorf("store session: %w", err)
		}
		slog.Info("stored analysis", "session_id", id, "db", dbPath)
	}

	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(v.GetString("lang")))

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sessions, err := db.ExportAllSessions()
	if err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}

	export := model.TestExport{
		ExportedAt: time.Now(),
		Sessions:   sessions,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	if err := db.SetMetadata("last_export_at", export.ExportedAt.Format(time.RFC3339)); err != nil {
		slog.Warn("record export time", "error", err)
	}

	slog.Info(appI18n.Tp(ctx, "SessionsExported", len(sessions)))
	return nil
}
