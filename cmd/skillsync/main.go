package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillsync/pkg/logger"
	"github.com/jingkaihe/skillsync/pkg/presenter"
	"github.com/jingkaihe/skillsync/pkg/remote"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLSYNC")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillsync")
	viper.AddConfigPath(".")

	viper.SetDefault("server", remote.DefaultServer)
	viper.SetDefault("upload_path", remote.DefaultUploadPath)
	viper.SetDefault("download_path", remote.DefaultDownloadPath)

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillsync",
	Short: "Synchronize local skills with a remote repository",
	Long: `Skillsync packages locally installed SKILL.md files, uploads them to a
remote repository in exchange for a business code, and restores them on
another machine from that code.

Default scan directories:
  ~/.claude/skills/
  ~/.codex/skills/`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning(fmt.Sprintf("Invalid log level %q, using default", level))
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// remoteConfigFromViper builds the remote client configuration from the
// resolved global settings
func remoteConfigFromViper() remote.Config {
	return remote.Config{
		Server:       viper.GetString("server"),
		UploadPath:   viper.GetString("upload_path"),
		DownloadPath: viper.GetString("download_path"),
	}
}

func main() {
	rootCmd.PersistentFlags().StringP("server", "s", remote.DefaultServer, "Remote server address")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-essential output")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
