package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vocab-validator/internal/core/services"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load vocabularies and keep them up to date",
	Long: `Imports the configured value sets, loads the vocabulary directory in the
background and starts watching it for changes once the first load succeeds.
Every change to the tree triggers a full rebuild; queries keep seeing the
previous generation until the new one is swapped in.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cmd)
}

// reloadStatusReporter is implemented by reloaders that keep the outcome
// of their last run.
type reloadStatusReporter interface {
	Status() *services.ReloadStatus
}

func printLoaded(cmd *cobra.Command) {
	if r, ok := vocabReloader.(reloadStatusReporter); ok {
		if status := r.Status(); status != nil && status.Success {
			cmd.Printf("Vocabulary generation %s loaded: %d code systems, %d records in %s\n",
				status.Generation, status.CodeSystems, status.Records,
				status.EndedAt.Sub(status.StartedAt).Round(time.Millisecond))
			return
		}
	}
	cmd.Printf("Vocabulary loaded: %d code systems\n", len(validationEngine.LoadedCodeSystems()))
}

// serve runs until ctx is cancelled.
func serve(ctx context.Context, cmd *cobra.Command) error {
	if vocabReloader == nil {
		return errors.New("vocabulary reloader not configured")
	}
	if err := importValueSets(ctx, cmd, settings.ValuesetDirectory); err != nil {
		return err
	}

	initializer := services.NewInitializer(vocabReloader, vocabWatcher)
	done := initializer.Start(ctx)

	select {
	case <-done:
		if err := initializer.Err(); err != nil {
			return err
		}
		printLoaded(cmd)
	case <-ctx.Done():
		<-done
	}

	if ctx.Err() == nil {
		cmd.Println("Watching for changes. Press Ctrl+C to stop.")
		<-ctx.Done()
	}

	logger.Info("Shutting down")
	return initializer.Stop()
}
