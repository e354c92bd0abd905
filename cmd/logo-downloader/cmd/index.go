package cmd

import (
	"fmt"
	"os"
	"time"

	"go-logo-downloader/index"
	"go-logo-downloader/internal/models"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// indexCmd represents the base command for index operations
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain and query the offline logo index",
	Long: `The index is a Bleve full-text index built from the logo cache,
so cached logos can be searched without touching the network.`,
}

// indexRebuildCmd rebuilds the index from the cache
var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the logo cache",
	Run:   runIndexRebuild,
}

// indexQueryCmd queries the index
var indexQueryCmd = &cobra.Command{
	Use:   "query [QUERY]",
	Short: "Query the logo index",
	Long: `Runs a Bleve query string against the index. Fields are addressable
by their lowercase names, e.g. '+source:Clearbit +formatType:svg'.`,
	Args: cobra.ExactArgs(1),
	Run:  runIndexQuery,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexQueryCmd)

	indexRebuildCmd.Flags().Bool("reset", false, "Delete the existing index before rebuilding")
}

func runIndexRebuild(cmd *cobra.Command, args []string) {
	reset, _ := cmd.Flags().GetBool("reset")
	indexPath := globalConfig.IndexPath

	if reset {
		if err := index.DeleteIndex(indexPath); err != nil {
			log.WithError(err).Fatalf("Failed to delete index at %s", indexPath)
		}
	}

	st := openStoreOrExit()
	defer st.Close()

	bleveIndex, err := index.OpenOrCreateIndex(indexPath)
	if err != nil {
		log.WithError(err).Fatalf("Failed to open index at %s", indexPath)
	}
	defer bleveIndex.Close()

	indexed := 0
	err = st.EachCacheEntry(func(key string, entry models.CacheEntry) error {
		c := entry.Candidate
		item := index.Item{
			ID:          key,
			CompanyName: c.CompanyName,
			Source:      c.Source,
			FormatType:  c.FormatType,
			Score:       float64(c.Score),
			ImageURL:    c.ImageURL,
			FilePath:    c.FilePath,
			FoundAt:     entry.Timestamp,
			ContentHash: c.Metadata["contentHash"],
		}
		if err := index.IndexItem(bleveIndex, item); err != nil {
			log.WithError(err).Warnf("Failed to index cache entry %s", key)
			return nil
		}
		indexed++
		return nil
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to walk the logo cache")
	}
	log.Infof("Indexed %d cached logo(s)", indexed)
}

func runIndexQuery(cmd *cobra.Command, args []string) {
	query := args[0]
	indexPath := globalConfig.IndexPath

	bleveIndex, err := bleve.Open(indexPath)
	if err != nil {
		if err == bleve.ErrorIndexPathDoesNotExist {
			log.Errorf("Index not found at %s. Run 'index rebuild' first.", indexPath)
		} else {
			log.Errorf("Failed to open index at %s: %v", indexPath, err)
		}
		os.Exit(1)
	}
	defer func() {
		if err := bleveIndex.Close(); err != nil {
			log.Errorf("Error closing index: %v", err)
		}
	}()

	start := time.Now()
	searchResults, err := index.SearchIndex(bleveIndex, query)
	if err != nil {
		log.WithError(err).Fatal("Index query failed")
	}
	log.Infof("Query finished. Hits: %d, Total: %d, Took: %s",
		len(searchResults.Hits), searchResults.Total, time.Since(start).Round(time.Millisecond))

	if searchResults.Total == 0 {
		fmt.Println("No results found matching your query.")
		return
	}
	fmt.Println("--- Index Results ---")
	for i, hit := range searchResults.Hits {
		fmt.Printf("[%d] ID: %s (Score: %.2f)\n", i+1, hit.ID, hit.Score)
		for field, value := range hit.Fields {
			fmt.Printf("  %s: %v\n", field, value)
		}
		fmt.Println("---")
	}
}
