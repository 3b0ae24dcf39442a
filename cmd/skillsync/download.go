package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillsync/pkg/archive"
	"github.com/jingkaihe/skillsync/pkg/logger"
	"github.com/jingkaihe/skillsync/pkg/presenter"
	"github.com/jingkaihe/skillsync/pkg/remote"
)

// DownloadConfig holds configuration for the download command
type DownloadConfig struct {
	Dir string
}

// NewDownloadConfig creates a DownloadConfig with default values
func NewDownloadConfig() *DownloadConfig {
	return &DownloadConfig{}
}

var downloadCmd = &cobra.Command{
	Use:   "download <code>",
	Short: "Download skills from the remote repository",
	Long: `Redeem a business code at the remote repository and restore the archived
skill files. Each file is written back to the location it was exported
from, relative to the home directory; anything already present at a
destination is replaced.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getDownloadConfigFromFlags(cmd)
		if err := runDownload(cmd, args[0], config); err != nil {
			presenter.Error(err, "Download failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewDownloadConfig()
	downloadCmd.Flags().StringP("dir", "d", defaults.Dir, "Target directory (restore locations come from the archive manifest)")
	rootCmd.AddCommand(downloadCmd)
}

func getDownloadConfigFromFlags(cmd *cobra.Command) *DownloadConfig {
	config := NewDownloadConfig()
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	return config
}

func runDownload(cmd *cobra.Command, code string, config *DownloadConfig) error {
	ctx := cmd.Context()

	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "failed to resolve home directory")
	}

	if config.Dir != "" {
		logger.G(ctx).WithField("dir", config.Dir).Debug("Restore destinations are determined by the archive manifest; --dir has no effect")
	}

	zipPath := tempArchivePath()
	defer removeTempArchive(cmd, zipPath)

	client := remote.NewClient(remoteConfigFromViper())
	presenter.Info("Downloading archive for code " + code + "...")

	digest, err := client.Download(ctx, code, zipPath)
	if err != nil {
		return err
	}
	presenter.Info("Archive SHA256: " + digest)

	bar := newSpinner("Restoring skills")
	restored, err := archive.Restore(zipPath, home, archive.WithRestoreProgress(func(string, string) {
		bar.Add(1)
	}))
	bar.Finish()
	if err != nil {
		return err
	}

	if len(restored) == 0 {
		presenter.Warning("Archive contained no restorable skill files")
		return nil
	}

	presenter.Section("Restored files")
	for _, relPath := range restored {
		presenter.Success("~/" + relPath)
	}
	presenter.Info(fmt.Sprintf("Restored %d file(s)", len(restored)))

	return nil
}

// newSpinner builds an indeterminate progress indicator for work without a
// known total
func newSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
