// Package cli implements the command-line presentation layer. It renders
// whatever the use cases return and treats empty results as valid "no data"
// states, never as errors.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"tubemetrics/domain/apperrors"
	"tubemetrics/domain/repository"
	"tubemetrics/usecase"

	"github.com/spf13/cobra"
)

// Deps are the use cases the commands run against, wired in main.
type Deps struct {
	Auth      repository.ICredentialStore
	Catalog   usecase.ICatalogUseCase
	Analytics usecase.IAnalyticsUseCase
	ErrorLog  repository.IErrorLog
}

var deps Deps

var rootCmd = &cobra.Command{
	Use:           "tubemetrics",
	Short:         "tubemetrics - watch history, recommendations and usage analytics for your video account",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute wires the dependencies and runs the command tree. Failures are
// rendered with the classifier's user-facing message.
func Execute(d Deps) {
	deps = d
	if err := rootCmd.Execute(); err != nil {
		classification := usecase.Classify(err)
		fmt.Fprintf(os.Stderr, "%s (%s)\n", classification.Message, classification.Kind)
		if classification.Kind == apperrors.KindUnauthorized {
			fmt.Fprintln(os.Stderr, "Run `tubemetrics auth url` to start a new login.")
		}
		os.Exit(1)
	}
}

// printJSON renders a result on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
