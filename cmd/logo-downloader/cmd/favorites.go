package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"
	"go-logo-downloader/internal/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// favoritesCmd represents the base command for favorite operations
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage favorite logos",
	Long:  `List, add, or remove pinned favorite logos. One favorite is kept per company.`,
}

// favoritesListCmd lists all favorites
var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all favorite logos",
	Run:   runFavoritesList,
}

// favoritesAddCmd promotes the best cached logo for a company to favorite
var favoritesAddCmd = &cobra.Command{
	Use:   "add [COMPANY_NAME]",
	Short: "Pin the best cached logo for a company as favorite",
	Long: `Looks the company up in the logo cache and pins the highest scoring
cached logo as its favorite. Run a search first if the cache is empty.`,
	Args: cobra.ExactArgs(1),
	Run:  runFavoritesAdd,
}

// favoritesRemoveCmd removes a favorite
var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove [COMPANY_NAME]",
	Short: "Remove a company's favorite logo",
	Args:  cobra.ExactArgs(1),
	Run:   runFavoritesRemove,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)

	favoritesAddCmd.Flags().BoolP("save", "s", false, "Also save the favorite logo to the output directory")
}

func openStoreOrExit() *store.Store {
	if globalConfig.DatabasePath == "" {
		log.Error("DatabasePath is not configured. Cannot open the logo store.")
		os.Exit(1)
	}
	st, err := store.Open(globalConfig.DatabasePath)
	if err != nil {
		log.WithError(err).Fatalf("Failed to open logo store at %s", globalConfig.DatabasePath)
	}
	return st
}

func runFavoritesList(cmd *cobra.Command, args []string) {
	st := openStoreOrExit()
	defer st.Close()

	favorites, err := st.GetFavorites()
	if err != nil {
		log.WithError(err).Fatal("Failed to read favorites")
	}
	if len(favorites) == 0 {
		log.Info("No favorites pinned yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tFORMAT\tSIZE\tPINNED")
	for _, fav := range favorites {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			fav.CompanyName, fav.FormatType,
			helpers.BytesToSize(uint64(len(fav.ImageData))),
			fav.Timestamp.Local().Format(time.RFC822))
	}
	w.Flush()
}

func runFavoritesAdd(cmd *cobra.Command, args []string) {
	companyName := args[0]
	saveIt, _ := cmd.Flags().GetBool("save")

	st := openStoreOrExit()
	defer st.Close()

	cached, err := st.GetFromCache(companyName, 0)
	if err != nil {
		log.WithError(err).Fatalf("Cache lookup failed for %q", companyName)
	}

	var best *models.Candidate
	for _, c := range cached {
		if len(c.ImageData) == 0 {
			continue
		}
		if best == nil || c.Score > best.Score {
			best = c
		}
	}
	if best == nil {
		log.Errorf("No cached logos with image data for %q. Run 'search %s' first.", companyName, companyName)
		os.Exit(1)
	}

	if err := st.AddToFavorites(best); err != nil {
		log.WithError(err).Fatalf("Failed to pin favorite for %q", companyName)
	}
	log.Infof("Pinned %s logo from %s (score %d) as favorite for %q",
		best.FormatType, best.Source, best.Score, companyName)

	if saveIt {
		if _, err := helpers.SaveCandidate(best, globalConfig.OutputDir, ""); err != nil {
			log.WithError(err).Warn("Failed to save favorite logo")
		}
	}
}

func runFavoritesRemove(cmd *cobra.Command, args []string) {
	companyName := args[0]

	st := openStoreOrExit()
	defer st.Close()

	if err := st.RemoveFromFavorites(companyName); err != nil {
		log.WithError(err).Fatalf("Failed to remove favorite for %q", companyName)
	}
	log.Infof("Removed favorite for %q", companyName)
}
