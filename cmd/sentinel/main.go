// Sentinel is a Discord community-report bot: guild administrators designate
// a forum channel for reports, and members file message or user reports that
// land there as tagged threads.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sentinelbot/sentinel/internal/config"
	"github.com/sentinelbot/sentinel/internal/db"
	"github.com/sentinelbot/sentinel/internal/discord"
	"github.com/sentinelbot/sentinel/internal/logging"
	"github.com/sentinelbot/sentinel/internal/settings"
	"github.com/sentinelbot/sentinel/internal/status"
)

var (
	debug bool
	quiet bool
)

var rootCmd = &cobra.Command{
	Use:          "sentinel <config-file>",
	Short:        "Discord community-report bot",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "set logging level to debug")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "don't log to standard out")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup(logging.Options{File: cfg.LogFile, Debug: debug, Quiet: quiet})

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	bot, err := discord.New(cfg.Token, cfg.DevGuild, settings.NewGormStore(conn))
	if err != nil {
		return err
	}

	log.Info("starting bot")
	if errOpen := bot.Open(); errOpen != nil {
		return errOpen
	}
	defer func() {
		if errClose := bot.Close(); errClose != nil {
			log.WithError(errClose).Warn("gateway close failed")
		}
	}()

	if cfg.StatusAddr != "" {
		server := status.New(conn, bot.GuildCount)
		go func() {
			log.WithField("addr", cfg.StatusAddr).Info("status endpoint listening")
			if errServe := http.ListenAndServe(cfg.StatusAddr, server.Router()); errServe != nil {
				log.WithError(errServe).Error("status endpoint failed")
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.WithField("uptime", bot.Uptime().Round(time.Second).String()).Info("shutting down")
	return nil
}
