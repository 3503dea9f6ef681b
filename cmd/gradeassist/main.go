package main

import (
	"context"
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
	"golang.org/x/crypto/bcrypt"

	"github.com/gradeassist/gradeassist/internal/genanswer"
	"github.com/gradeassist/gradeassist/internal/handler"
	appI18n "github.com/gradeassist/gradeassist/internal/i18n"
	"github.com/gradeassist/gradeassist/internal/mcq"
	"github.com/gradeassist/gradeassist/internal/model"
	"github.com/gradeassist/gradeassist/internal/ocr"
	"github.com/gradeassist/gradeassist/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradeassist",
		Short: "Exam grading assistant for MCQ answer sheets",
	}

	serve := serveCmd()
	root.AddCommand(serve, gradeCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `gradeassist --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP grading server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "gradeassist.db", "SQLite database path")
	f.String("llm-url", "", "OpenAI-compatible API base URL for answer generation (empty disables)")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Duration("cache-ttl", 30*time.Minute, "Generated-answer cache lifetime (0 = never expire)")
	f.Int("llm-retries", 3, "LLM generation attempts before falling back")
	f.String("ocr-url", "", "OCR provider base URL (empty disables)")
	f.String("ocr-key", "", "API key for OCR provider")
	f.StringP("lang", "l", "en", "Response language (en, hi)")
	f.String("admin-password", "", "Initial admin password (or set GRADEASSIST_ADMIN_PASSWORD)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func gradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade an MCQ answer sheet against an answer key",
		RunE:  runGrade,
	}
	f := cmd.Flags()
	f.StringP("model", "m", "", "Answer key text (e.g. \"1 A 2 B 3 C\")")
	f.StringP("student", "s", "", "Student answer text")
	f.String("model-file", "", "Read the answer key from a file")
	f.String("student-file", "", "Read the student answers from a file")
	f.Int("total-marks", 0, "Scale the score to this many marks (0 = raw score)")
	f.Bool("json", false, "Emit the evaluation as JSON instead of a report")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the evaluation history as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "gradeassist.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
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

	v.SetEnvPrefix("GRADEASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gradeassist")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/gradeassist")
	v.AddConfigPath("/etc/gradeassist")
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

	// Open database.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Seed default admin user if no users exist.
	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if err := db.CleanupExpiredSessions(); err != nil {
		slog.Warn("cleanup expired sessions", "error", err)
	}

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Answer generation is optional; without an LLM endpoint the endpoint
	// reports unavailable.
	var gen handler.AnswerGenerator
	if llmURL := v.GetString("llm-url"); llmURL != "" {
		client := genanswer.NewClient(llmURL, v.GetString("llm-key"), v.GetString("llm-model"))
		if err := client.Ping(context.Background()); err != nil {
			slog.Warn("LLM health check failed, relying on fallbacks", "url", llmURL, "error", err)
		} else {
			slog.Info("LLM endpoint OK", "url", llmURL, "model", v.GetString("llm-model"))
		}
		cache := genanswer.NewCache(v.GetDuration("cache-ttl"), nil)
		gen = genanswer.NewService(client, cache, v.GetInt("llm-retries"), time.Second)
	}

	var ocrClient handler.OCRExtractor
	if ocrURL := v.GetString("ocr-url"); ocrURL != "" {
		ocrClient = ocr.NewClient(ocrURL, v.GetString("ocr-key"))
	}

	h := handler.New(db, gen, ocrClient)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"llm_url", v.GetString("llm-url"),
		"ocr_url", v.GetString("ocr-url"),
		"lang", lang,
	)
	return http.ListenAndServe(addr, r)
}

func runGrade(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	modelText, err := textFromFlags(v.GetString("model"), v.GetString("model-file"))
	if err != nil {
		return fmt.Errorf("answer key: %w", err)
	}
	studentText, err := textFromFlags(v.GetString("student"), v.GetString("student-file"))
	if err != nil {
		return fmt.Errorf("student answers: %w", err)
	}
	if modelText == "" {
		return fmt.Errorf("an answer key is required: set --model or --model-file")
	}

	res := mcq.Evaluate(modelText, studentText)
	eval := mcq.ToEvaluationResult(res, v.GetInt("total-marks"))

	if v.GetBool("json") {
		out := struct {
			Score      int                    `json:"score"`
			Total      int                    `json:"total"`
			Percentage int                    `json:"percentage"`
			Results    *mcq.ResultSet         `json:"results"`
			Evaluation model.EvaluationResult `json:"evaluation"`
		}{res.Score, res.Total, mcq.Percentage(res), res.Results, eval}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(mcq.FormatResults(res))
	for _, line := range eval.FeedbackSummary {
		fmt.Println(line)
	}
	return nil
}

// textFromFlags resolves an inline value against a file path, preferring
// the file when both are set.
func textFromFlags(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportAllEvaluations()
	if err != nil {
		return fmt.Errorf("export evaluations: %w", err)
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

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

func seedAdmin(db *store.Store, password string) error {
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or GRADEASSIST_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.CreateUser(model.User{
		Username:     "admin",
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         model.UserRoleAdmin,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("seeded default admin user", "username", "admin")
	return nil
}
