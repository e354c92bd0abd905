package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"go-logo-downloader/internal/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past searches",
	Long:  `Lists previous searches with their result counts, newest first.`,
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "l", 20, "Maximum number of entries to show (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	st, err := store.Open(globalConfig.DatabasePath)
	if err != nil {
		log.WithError(err).Fatalf("Failed to open logo store at %s", globalConfig.DatabasePath)
	}
	defer st.Close()

	entries, err := st.GetHistory(limit)
	if err != nil {
		log.WithError(err).Fatal("Failed to read search history")
	}
	if len(entries) == 0 {
		log.Info("No search history recorded yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tRESULTS\tWHEN")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\n",
			entry.CompanyName, entry.ResultsCount, entry.Timestamp.Local().Format(time.RFC822))
	}
	w.Flush()
}
