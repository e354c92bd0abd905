package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"
	"go-logo-downloader/internal/search"
	"go-logo-downloader/internal/sources"
	"go-logo-downloader/internal/store"

	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [COMPANY_NAME]",
	Short: "Search all configured sources for a company's logo",
	Long: `Searches the logo sources concurrently for the given company, reusing
fresh cached results first. Found logos are scored, cached, and listed;
use --save to also write the best ones to the output directory.`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("max-results", "m", 0, "Stop after this many logos (0 uses config default)")
	searchCmd.Flags().BoolP("all-sources", "a", false, "Query every source even after max results is reached")
	searchCmd.Flags().BoolP("save", "s", false, "Save found logos to the output directory")
	searchCmd.Flags().IntP("concurrency", "c", 0, "Number of sources queried in parallel (0 uses config default)")

	viper.BindPFlag("search.max_results", searchCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("search.all_sources", searchCmd.Flags().Lookup("all-sources"))
	viper.BindPFlag("search.save", searchCmd.Flags().Lookup("save"))
	viper.BindPFlag("search.concurrency", searchCmd.Flags().Lookup("concurrency"))
}

func runSearch(cmd *cobra.Command, args []string) {
	companyName := args[0]

	cfg := globalConfig.SearchConfig()
	if n := viper.GetInt("search.max_results"); n > 0 {
		cfg.MaxResults = n
	}
	if viper.GetBool("search.all_sources") {
		cfg.SearchAllSources = true
	}
	if n := viper.GetInt("search.concurrency"); n > 0 {
		cfg.ConcurrentSearches = n
	}
	saveResults := viper.GetBool("search.save")

	if globalConfig.DatabasePath == "" {
		log.Error("DatabasePath is not configured. Cannot open the logo store.")
		os.Exit(1)
	}
	st, err := store.Open(globalConfig.DatabasePath)
	if err != nil {
		log.WithError(err).Fatalf("Failed to open logo store at %s", globalConfig.DatabasePath)
	}
	defer st.Close()

	client := fetch.NewClient(cfg, globalHTTPTransport)
	entries := sources.Build(client, sources.DefaultDescriptors)

	writer := uilive.New()
	writer.Start()

	start := time.Now()
	var results []*models.Candidate
	success := false

	callbacks := search.Callbacks{
		OnProgress: func(source, message string) {
			fmt.Fprintf(writer, "[%s] %s\n", source, message)
		},
		OnResult: func(c *models.Candidate) {
			fmt.Fprintf(writer.Newline(), "Found %s logo from %s (score %d)\n", c.FormatType, c.Source, c.Score)
		},
		OnComplete: func(ok bool, found []*models.Candidate) {
			success = ok
			results = found
		},
	}

	orchestrator := search.NewOrchestrator(companyName, cfg, st, entries, callbacks)
	orchestrator.Run(context.Background())
	writer.Stop()

	if !success {
		log.Warnf("No logos found for %q after %s", companyName, time.Since(start).Round(time.Millisecond))
		os.Exit(1)
	}
	log.Infof("Found %d logo(s) for %q in %s", len(results), companyName, time.Since(start).Round(time.Millisecond))

	printResultsTable(results)

	if saveResults {
		saved := 0
		for _, c := range results {
			if len(c.ImageData) == 0 {
				continue
			}
			fileName := fmt.Sprintf("%s_%s_logo.%s", helpers.ConvertToSlug(c.CompanyName), helpers.ConvertToSlug(c.Source), c.FormatType)
			if _, err := helpers.SaveCandidate(c, globalConfig.OutputDir, fileName); err != nil {
				log.WithError(err).Warnf("Failed to save logo from %s", c.Source)
				continue
			}
			saved++
		}
		log.Infof("Saved %d logo(s) to %s", saved, globalConfig.OutputDir)
	}
}

func printResultsTable(results []*models.Candidate) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tFORMAT\tSCORE\tSIZE\tURL")
	for _, c := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			c.Source, c.FormatType, c.Score, helpers.BytesToSize(uint64(len(c.ImageData))), c.ImageURL)
	}
	w.Flush()
}
