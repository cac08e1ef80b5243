package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Airlectric/Speech-To-Text-Ai/internal/api"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/asr"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/auth"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/config"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/correct"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/job"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/media"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/pipeline"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/recorder"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/storage"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/store"
)

// sweepAge is how long an orphaned upload survives before the startup
// sweep reclaims it. Failed jobs stay retryable within this window.
const sweepAge = 24 * time.Hour

const logLevelEnvKey = config.EnvPrefix + "LOG_LEVEL"

func createLog() *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = ""

	logLevelValue := os.Getenv(logLevelEnvKey)
	logLevel, logLevelErr := zapcore.ParseLevel(logLevelValue)
	if logLevelErr != nil {
		logLevel = zapcore.InfoLevel
	}

	rawLog := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		logLevel,
	)).Named("stt")

	if logLevelErr != nil && logLevelValue != "" {
		rawLog.With(zap.String(logLevelEnvKey, logLevelValue)).Warn("unable to parse log level, using INFO")
	}

	return rawLog
}

func main() {
	godotenv.Load()

	parentLogger := createLog()
	defer parentLogger.Sync()
	log := parentLogger.Named("main")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to parse config", zap.Error(err))
	}

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		runServe(cfg, parentLogger)
	case "record":
		runRecord(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected serve or record)\n", command)
		os.Exit(2)
	}
}

func runServe(cfg *config.Config, parentLogger *zap.Logger) {
	log := parentLogger.Named("main")

	for _, dir := range []string{cfg.DataPath, cfg.UploadPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("failed to create directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	generated, err := cfg.EnsureJWTSecret()
	if err != nil {
		log.Fatal("failed to ensure JWT secret", zap.Error(err))
	}
	if generated {
		log.Warn("generated a random JWT secret, sessions will not survive restarts; set " +
			config.EnvPrefix + "JWT_SECRET to persist them")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer st.Close()

	if err := st.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("failed to create admin user", zap.Error(err))
	}
	log.Info("admin user ensured", zap.String("username", cfg.AdminUsername))

	queue := job.NewJobQueue(st.DB(), parentLogger)
	defer queue.Stop()

	active, err := queue.ActiveFilePaths()
	if err != nil {
		log.Warn("could not list active job files, skipping upload sweep", zap.Error(err))
	} else if removed, err := storage.Sweep(cfg.UploadPath, active, sweepAge); err != nil {
		log.Warn("upload sweep failed", zap.Error(err))
	} else if removed > 0 {
		log.Info("swept orphaned uploads", zap.Int("removed", removed))
	}

	registry := buildEngines(cfg, parentLogger)

	var corrector correct.Corrector
	if cfg.GroqAPIKey != "" {
		corrector = correct.NewGroqCorrector(cfg.GroqAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	} else {
		log.Warn("no LLM API key configured, grammar correction is disabled")
	}

	ffmpeg := media.New(media.WithBinaries(cfg.FFmpegBinary, cfg.FFprobeBinary))
	pipe := pipeline.New(ffmpeg, registry, corrector, st, parentLogger, pipeline.Options{
		SegmentSeconds:  cfg.SegmentSeconds,
		PoolSize:        cfg.PoolSize,
		MaxDurationSecs: cfg.MaxDurationSecs,
		DefaultLanguage: cfg.Language,
	})
	queue.RegisterHandler(job.JobTranscribe, pipe.HandleJob)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	router := api.NewRouter(cfg, st, jwtService, registry, queue, parentLogger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// buildEngines registers every engine the config enables. The whisper
// CLI is always available as the local fallback, mirroring the default
// small-model setup.
func buildEngines(cfg *config.Config, log *zap.Logger) *asr.Registry {
	registry := asr.NewRegistry(log)
	if cfg.WhisperServerURL != "" {
		registry.Register(asr.NewWhisperServerClient(cfg.WhisperServerURL))
	}
	if cfg.GroqAPIKey != "" {
		registry.Register(asr.NewGroqWhisper(cfg.GroqAPIKey, cfg.LLMBaseURL, cfg.GroqWhisperModel))
	}
	registry.Register(asr.NewCLIEngine(cfg.WhisperCLIBinary, cfg.WhisperCLIModel))
	return registry
}

func runRecord(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	server := fs.String("server", fmt.Sprintf("http://localhost:%d", cfg.Port), "server base URL")
	username := fs.String("username", cfg.AdminUsername, "login username")
	password := fs.String("password", cfg.AdminPassword, "login password")
	engine := fs.String("engine", "", "ASR engine (server default if empty)")
	language := fs.String("language", "", "audio language (server default if empty)")
	style := fs.String("style", "", "correction style: standard, formal or casual")
	noCorrect := fs.Bool("no-correct", false, "skip the grammar correction pass")
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec, err := recorder.New(16000, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "microphone unavailable: %v\n", err)
		os.Exit(1)
	}
	defer rec.Close()

	if err := rec.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start recording: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🔴 Recording... press Enter to stop.")
	bufio.NewReader(os.Stdin).ReadString('\n')

	samples := rec.Stop()
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "no audio captured")
		os.Exit(1)
	}
	fmt.Printf("Captured %.1fs of audio\n", rec.Duration().Seconds())

	wavPath := filepath.Join(os.TempDir(), fmt.Sprintf("recording-%d.wav", time.Now().Unix()))
	if err := recorder.WriteWAV(wavPath, samples, 16000, 1); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write wav: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(wavPath)

	client := recorder.NewClient(*server)
	if err := client.Login(ctx, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	j, err := client.Submit(ctx, wavPath, recorder.SubmitOptions{
		Engine:   *engine,
		Language: *language,
		Style:    *style,
		Correct:  !*noCorrect,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	result, err := client.WaitForResult(ctx, j.ID, func(p float64) {
		fmt.Printf("\rTranscribing... %3.0f%%", p*100)
	})
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n🔍 Raw Transcription")
	fmt.Println(result.RawText)
	if result.CorrectedText != "" {
		fmt.Println("\n📝 Corrected Transcription")
		fmt.Println(result.CorrectedText)
	}
}
