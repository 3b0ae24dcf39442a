package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillsync/pkg/logger"
	"github.com/jingkaihe/skillsync/pkg/presenter"
	"github.com/jingkaihe/skillsync/pkg/skills"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	Dir string
}

// NewListConfig creates a ListConfig with default values
func NewListConfig() *ListConfig {
	return &ListConfig{}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally installed skills",
	Long:  `List all locally discovered skills with their names, descriptions, and paths, grouped by originating directory.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)
		if err := runList(cmd, config); err != nil {
			presenter.Error(err, "Failed to list skills")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().StringP("dir", "d", defaults.Dir, "Local skills directory to scan instead of the defaults")
	rootCmd.AddCommand(listCmd)
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	return config
}

func runList(cmd *cobra.Command, config *ListConfig) error {
	ctx := cmd.Context()

	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "failed to resolve home directory")
	}

	var opts []skills.Option
	if config.Dir != "" {
		opts = append(opts, skills.WithRoots(config.Dir))
	}
	scanner, err := skills.NewScanner(home, opts...)
	if err != nil {
		return err
	}

	result, err := scanner.Scan()
	if err != nil {
		return err
	}

	if result.Total() == 0 {
		presenter.Info("No skills found")
		return nil
	}

	for _, root := range result.Roots {
		if len(root.Files) == 0 {
			continue
		}

		source := filepath.Base(filepath.Dir(root.Root))
		presenter.Section(fmt.Sprintf("%s - %d skill(s)", source, len(root.Files)))

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION\tPATH")
		fmt.Fprintln(tw, "----\t-----------\t----")

		for _, file := range root.Files {
			content, err := os.ReadFile(file.Path)
			if err != nil {
				logger.G(ctx).WithError(err).WithField("path", file.Path).Debug("Failed to read skill file")
			}

			description := skills.Describe(string(content))
			if len(description) > 60 {
				description = description[:57] + "..."
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\n", file.SkillName, description, "~/"+file.RelPath)
		}
		tw.Flush()
	}

	presenter.Separator()
	presenter.Info(fmt.Sprintf("Total: %d skill(s)", result.Total()))

	return nil
}
