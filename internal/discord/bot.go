package discord

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/sentinelbot/sentinel/internal/report"
	"github.com/sentinelbot/sentinel/internal/settings"
)

// Command and component identifiers.
const (
	cmdReportSetup   = "report-setup"
	cmdPing          = "ping"
	cmdReportMessage = "Report Message"
	cmdReportUser    = "Report User"

	componentChannelSelect = "report_channel_select"
)

// Bot owns the Discord session and routes interactions into the workflow.
type Bot struct {
	session  *discordgo.Session
	workflow *report.Workflow
	devGuild int64
	started  time.Time
}

// New builds a Bot around a fresh session and a workflow over the store.
func New(token string, devGuild int64, store settings.Store) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session:  session,
		workflow: report.New(store, NewChannels(session)),
		devGuild: devGuild,
		started:  time.Now(),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Session exposes the underlying discordgo session.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Uptime reports how long the bot has been running.
func (b *Bot) Uptime() time.Duration {
	return time.Since(b.started)
}

// GuildCount returns the number of guilds in the session state.
func (b *Bot) GuildCount() int {
	return len(b.session.State.Guilds)
}

// Open connects the gateway and registers application commands. Commands go
// to the dev guild when one is configured, globally otherwise.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}

	scope := "" // global
	if b.devGuild != 0 {
		scope = strconv.FormatInt(b.devGuild, 10)
	}
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, scope, commands()); err != nil {
		_ = b.session.Close()
		return fmt.Errorf("discord: register commands: %w", err)
	}
	return nil
}

// Close disconnects the gateway.
func (b *Bot) Close() error {
	return b.session.Close()
}

// commands defines the application command set.
func commands() []*discordgo.ApplicationCommand {
	manageMessages := int64(discordgo.PermissionManageMessages)
	noDM := false
	return []*discordgo.ApplicationCommand{
		{
			Name:                     cmdReportSetup,
			Description:              "Setup the channel for reporting (Must be forum channel)",
			DefaultMemberPermissions: &manageMessages,
			DMPermission:             &noDM,
		},
		{
			Name:        cmdPing,
			Description: "pong",
		},
		{
			Name:         cmdReportMessage,
			Type:         discordgo.MessageApplicationCommand,
			DMPermission: &noDM,
		},
		{
			Name:         cmdReportUser,
			Type:         discordgo.UserApplicationCommand,
			DMPermission: &noDM,
		},
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("connected to Discord")
}
