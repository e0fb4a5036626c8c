// Command careerctl inspects the job catalog, runs the recommendation scorer
// and drives scene layouts headless from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "careerctl",
	Short:         "Career catalog and scene tooling",
	Long:          "careerctl loads the skill/job catalog, scores career recommendations for a skill selection, imports the catalog into Postgres and runs scene layouts without a client.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagSource   string
	flagDemo     bool
	flagCatchAll string
	flagTimeout  time.Duration
	flagMaxBody  int
	flagVerbose  bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagSource, "source", "", "Catalog CSV path or URL (default $CATALOG_SOURCE)")
	pf.BoolVar(&flagDemo, "demo", false, "Use the built-in demo catalog instead of a source")
	pf.StringVar(&flagCatchAll, "catch-all", "", "Catch-all industry label (default $CATALOG_CATCH_ALL_INDUSTRY or Other)")
	pf.DurationVar(&flagTimeout, "timeout", 10*time.Second, "Catalog fetch timeout")
	pf.IntVar(&flagMaxBody, "max-body-bytes", 0, "Reject remote catalogs larger than this many bytes (0 = unlimited)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log diagnostics to stderr")
}

var errNoSource = errors.New("no catalog source: pass --source, set CATALOG_SOURCE or use --demo")

func newLogger() *log.Logger {
	if flagVerbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

func classifier() industry.Classifier {
	label := flagCatchAll
	if label == "" {
		label = os.Getenv("CATALOG_CATCH_ALL_INDUSTRY")
	}
	return industry.NewClassifier(label)
}

// loadCatalog fails loudly, unlike the server which degrades to an empty
// catalog.
func loadCatalog(ctx context.Context) (job.Catalog, error) {
	if flagDemo {
		return catalog.Demo(classifier()), nil
	}
	source := flagSource
	if source == "" {
		source = os.Getenv("CATALOG_SOURCE")
	}
	if source == "" {
		return job.Catalog{}, errNoSource
	}
	ua := os.Getenv("CATALOG_USER_AGENT")
	if ua == "" {
		ua = "careerctl/1.0"
	}
	fetcher := catalog.NewSourceFetcher(ua, flagTimeout)
	fetcher.MaxBodyBytes = flagMaxBody
	l := catalog.NewLoader(fetcher, classifier(), source, newLogger())
	return l.LoadStrict(ctx)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
