package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillsync/pkg/archive"
	"github.com/jingkaihe/skillsync/pkg/logger"
	"github.com/jingkaihe/skillsync/pkg/presenter"
	"github.com/jingkaihe/skillsync/pkg/remote"
	"github.com/jingkaihe/skillsync/pkg/skills"
)

// UploadConfig holds configuration for the upload command
type UploadConfig struct {
	Dir string
}

// NewUploadConfig creates an UploadConfig with default values
func NewUploadConfig() *UploadConfig {
	return &UploadConfig{}
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload local skills to the remote repository",
	Long: `Scan the local skill directories, package every discovered SKILL.md into
an archive, and upload it to the remote repository. On success the server
answers with a business code that can be redeemed with 'skillsync download'
on another machine.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getUploadConfigFromFlags(cmd)
		if err := runUpload(cmd, config); err != nil {
			presenter.Error(err, "Upload failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewUploadConfig()
	uploadCmd.Flags().StringP("dir", "d", defaults.Dir, "Local skills directory to scan instead of the defaults")
	rootCmd.AddCommand(uploadCmd)
}

func getUploadConfigFromFlags(cmd *cobra.Command) *UploadConfig {
	config := NewUploadConfig()
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	return config
}

func runUpload(cmd *cobra.Command, config *UploadConfig) error {
	ctx := cmd.Context()

	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "failed to resolve home directory")
	}

	result, err := scanSkills(home, config.Dir)
	if err != nil {
		return err
	}

	files := result.Files()
	if len(files) == 0 {
		presenter.Warning("No SKILL.md files found")
		return nil
	}
	presenter.Info(fmt.Sprintf("Found %d SKILL.md file(s)", len(files)))

	zipPath := tempArchivePath()
	defer removeTempArchive(cmd, zipPath)

	bar := newCountBar(len(files), "Packaging skills")
	digest, err := archive.Build(files, zipPath, archive.WithBuildProgress(func(skills.SkillFile, string) {
		bar.Add(1)
	}))
	bar.Finish()
	if err != nil {
		return err
	}

	presenter.Section("Packaged files")
	for _, file := range files {
		presenter.Success("~/" + file.RelPath)
	}
	presenter.Info("Archive SHA256: " + digest)

	client := remote.NewClient(remoteConfigFromViper())
	presenter.Info("Uploading archive...")

	code, err := client.Upload(ctx, zipPath)
	if err != nil {
		return err
	}

	presenter.Success("Business code: " + code)
	return nil
}

// scanSkills discovers skill files under the explicit directory, or under
// the default root pair when none is given, reporting each scanned root
func scanSkills(home, dir string) (*skills.ScanResult, error) {
	var opts []skills.Option
	if dir != "" {
		opts = append(opts, skills.WithRoots(dir))
	}

	scanner, err := skills.NewScanner(home, opts...)
	if err != nil {
		return nil, err
	}

	for _, root := range scanner.Roots() {
		presenter.Info("Scanning directory: " + root)
	}

	result, err := scanner.Scan()
	if err != nil {
		return nil, err
	}

	for _, root := range result.Roots {
		if root.Missing {
			presenter.Warning("Directory not found, skipping: " + root.Root)
		}
	}

	return result, nil
}

// tempArchivePath returns a per-invocation archive path with a time-based
// suffix so concurrent invocations on the same machine do not collide
func tempArchivePath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("skills_%d.zip", time.Now().Unix()))
}

// removeTempArchive deletes the temporary archive regardless of command
// outcome; a leftover from a failed build is fine to miss
func removeTempArchive(cmd *cobra.Command, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.G(cmd.Context()).WithError(err).WithField("path", path).Warn("Failed to remove temporary archive")
	}
}

// newCountBar builds a progress bar over a known item count, writing to
// stderr so it never mixes with command output
func newCountBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
