package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/agenda/internal/application"
	"github.com/example/agenda/internal/config"
	"github.com/example/agenda/internal/credential"
	httptransport "github.com/example/agenda/internal/http"
	"github.com/example/agenda/internal/logging"
)

const usage = `usage: agenda [command]

commands:
  serve            run the JSON API (default)
  export [-o file] write the document as a backup (stdout by default)
  import <file>    replace the document with a backup
  seed-demo        add demonstration clients, booking and income
  reset            wipe the document and start over with the default admin
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.Options{Service: "agenda", Writer: stderr}).Error("failed to load configuration", "error", err)
		return 1
	}
	logger := logging.New(logging.Options{Service: "agenda", Level: cfg.LogLevel, Writer: stderr})

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve", "export", "import", "seed-demo", "reset":
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usage)
		return 2
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "store", cfg.Store, "error", err)
		return 1
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	hasher, err := credential.New(cfg.CredentialScheme)
	if err != nil {
		logger.Error("failed to configure credentials", "scheme", cfg.CredentialScheme, "error", err)
		return 1
	}

	agenda, err := application.NewAgenda(ctx, application.Options{
		Store:       store,
		Key:         cfg.StoreKey,
		Hasher:      hasher,
		IDGenerator: uuid.NewString,
		Now:         time.Now,
		Location:    cfg.Location,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to load agenda", "error", err)
		return 1
	}

	switch command {
	case "export":
		err = exportCommand(ctx, agenda, args, stdout)
	case "import":
		err = importCommand(ctx, agenda, args)
	case "seed-demo":
		err = agenda.SeedDemo(ctx)
	case "reset":
		err = agenda.ResetDocument(ctx)
	default:
		err = serve(ctx, agenda, cfg, logger)
	}

	var usageErr usageError
	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return 2
	case err != nil:
		logger.Error("command failed", "command", command, "error", err)
		return 1
	}
	return 0
}

type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

func exportCommand(ctx context.Context, agenda *application.Agenda, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	output := flags.String("o", "", "write the backup to this file instead of stdout")
	if err := flags.Parse(args); err != nil {
		return usageError{msg: fmt.Sprintf("export: %v", err)}
	}

	data, err := agenda.ExportDocument(ctx)
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(*output, data, 0o600)
}

func importCommand(ctx context.Context, agenda *application.Agenda, args []string) error {
	if len(args) != 1 {
		return usageError{msg: "import: expected exactly one backup file"}
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	return agenda.ImportDocument(ctx, data)
}

func serve(ctx context.Context, agenda *application.Agenda, cfg config.Config, logger *slog.Logger) error {
	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httptransport.NewHandler(agenda, httptransport.ServerOptions{
			Logger:      logger,
			CORSOrigins: cfg.CORSOrigins,
			LoginRate:   cfg.LoginRate,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("agenda API listening", "addr", server.Addr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
