package cmd

import (
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Purge expired cache entries and temporary files",
	Long: `Removes cached logos older than the configured expiry, plus any
leftover .tmp files in the output directory. Use --all to drop the whole
cache regardless of age. History and favorites are never touched.`,
	Run: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().Bool("all", false, "Remove every cache entry regardless of age")
	cleanCmd.Flags().Int("max-age", 0, "Override cache expiry in days (0 uses config value)")
}

func runClean(cmd *cobra.Command, args []string) {
	purgeAll, _ := cmd.Flags().GetBool("all")
	maxAge, _ := cmd.Flags().GetInt("max-age")
	if maxAge <= 0 {
		maxAge = globalConfig.SearchConfig().CacheExpiryDays
	}
	if purgeAll {
		maxAge = 0
	}

	st := openStoreOrExit()
	defer st.Close()

	removed, err := st.ClearCache(maxAge)
	if err != nil {
		log.WithError(err).Error("Cache purge failed")
		os.Exit(1)
	}
	if purgeAll {
		log.Infof("Removed %d cache entr(ies)", removed)
	} else {
		log.Infof("Removed %d cache entr(ies) older than %d day(s)", removed, maxAge)
	}

	// Stray .tmp files from interrupted saves.
	outputDir := globalConfig.OutputDir
	if outputDir == "" {
		return
	}
	info, err := os.Stat(outputDir)
	if err != nil || !info.IsDir() {
		log.Debugf("Output directory %s not present, skipping .tmp scan", outputDir)
		return
	}

	var tmpRemoved, filesFailed int
	walkErr := filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warnf("Error accessing path %q during scan: %v", path, err)
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(strings.ToLower(info.Name()), ".tmp") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				log.Errorf("Failed to remove .tmp file %q: %v", path, err)
				filesFailed++
			}
			return nil
		}
		log.Infof("Removed .tmp file: %s", path)
		tmpRemoved++
		return nil
	})
	if walkErr != nil {
		log.Errorf("Error during directory walk of %q: %v", outputDir, walkErr)
	}

	log.Infof("Clean complete. Removed %d .tmp file(s).", tmpRemoved)
	if filesFailed > 0 || walkErr != nil {
		os.Exit(1)
	}
}
