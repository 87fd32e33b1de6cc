package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/sentinelbot/sentinel/internal/report"
)

// Modal custom id prefixes. Message modals carry the source channel and
// message ids so the subject can be re-resolved at submit time; subjects are
// never cached across interaction hops.
const (
	modalMessagePrefix = "report_message"
	modalUserPrefix    = "report_user"

	inputReason = "reason"
)

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case cmdPing:
			err = b.respond(i, "Pong!")
		case cmdReportSetup:
			err = b.promptChannelSelect(i)
		case cmdReportMessage:
			err = b.openReportModal(i, modalMessageID(i.ChannelID, data.TargetID),
				"Message Report", "Reason for reporting this message")
		case cmdReportUser:
			err = b.openReportModal(i, modalUserID(data.TargetID),
				"User Report", "Reason for reporting this User")
		}
	case discordgo.InteractionMessageComponent:
		if i.MessageComponentData().CustomID == componentChannelSelect {
			err = b.handleChannelSelect(i)
		}
	case discordgo.InteractionModalSubmit:
		err = b.handleModalSubmit(i)
	}

	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": i.GuildID,
			"type":     i.Type,
		}).WithError(err).Error("interaction handling failed")
		_ = b.respondEphemeral(i, report.OutcomeErrored.Reply())
	}
}

// promptChannelSelect answers report-setup with a forum channel picker.
func (b *Bot) promptChannelSelect(i *discordgo.InteractionCreate) error {
	return b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Please select the forum channel to use. Must have report and feedback tags",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:     discordgo.ChannelSelectMenu,
						CustomID:     componentChannelSelect,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildForum},
					},
				}},
			},
		},
	})
}

// handleChannelSelect validates and stores the picked report channel.
func (b *Bot) handleChannelSelect(i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return fmt.Errorf("discord: channel select without value")
	}
	guildID := parseSnowflake(i.GuildID)
	channelID := parseSnowflake(values[0])

	result, err := b.workflow.Configure(context.Background(), guildID, channelID)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).WithError(err).Error("report channel configuration failed")
	}
	return b.respondEphemeral(i, result.Reply())
}

// openReportModal opens the reason modal for either report kind.
func (b *Bot) openReportModal(i *discordgo.InteractionCreate, customID, title, label string) error {
	return b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: customID,
			Title:    title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    inputReason,
						Label:       label,
						Style:       discordgo.TextInputParagraph,
						Placeholder: "Type your reason here...",
						Required:    true,
						MaxLength:   report.MaxReasonLength,
					},
				}},
			},
		},
	})
}

// handleModalSubmit re-resolves the report subject and runs the workflow.
func (b *Bot) handleModalSubmit(i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()
	guildID := parseSnowflake(i.GuildID)
	sub := report.Submission{
		Reporter:   userRef(interactionUser(i)),
		Reason:     modalReason(data),
		ReportedAt: time.Now().UTC(),
	}

	var (
		outcome report.Outcome
		err     error
	)
	parts := strings.Split(data.CustomID, ":")
	switch {
	case parts[0] == modalMessagePrefix && len(parts) == 3:
		var msg *discordgo.Message
		msg, err = b.session.ChannelMessage(parts[1], parts[2])
		if err != nil {
			log.WithFields(log.Fields{
				"guild_id":   guildID,
				"channel_id": parts[1],
				"message_id": parts[2],
			}).WithError(err).Error("reported message lookup failed")
			return b.respondEphemeral(i, report.OutcomeErrored.Reply())
		}
		outcome, err = b.workflow.SubmitMessage(context.Background(), guildID, sub, report.Message{
			ID:        parseSnowflake(msg.ID),
			Author:    userRef(msg.Author),
			Content:   msg.Content,
			CreatedAt: msg.Timestamp,
		})
	case parts[0] == modalUserPrefix && len(parts) == 2:
		var user *discordgo.User
		user, err = b.session.User(parts[1])
		if err != nil {
			log.WithFields(log.Fields{
				"guild_id": guildID,
				"user_id":  parts[1],
			}).WithError(err).Error("reported user lookup failed")
			return b.respondEphemeral(i, report.OutcomeErrored.Reply())
		}
		outcome, err = b.workflow.SubmitUser(context.Background(), guildID, sub, userRef(user))
	default:
		return fmt.Errorf("discord: unknown modal id %q", data.CustomID)
	}

	if err != nil {
		log.WithField("guild_id", guildID).WithError(err).Error("report submission failed")
		outcome = report.OutcomeErrored
	}
	return b.respondEphemeral(i, outcome.Reply())
}

func (b *Bot) respond(i *discordgo.InteractionCreate, content string) error {
	return b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func (b *Bot) respondEphemeral(i *discordgo.InteractionCreate, content string) error {
	return b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// modalMessageID encodes a message report modal id.
func modalMessageID(channelID, messageID string) string {
	return fmt.Sprintf("%s:%s:%s", modalMessagePrefix, channelID, messageID)
}

// modalUserID encodes a user report modal id.
func modalUserID(userID string) string {
	return fmt.Sprintf("%s:%s", modalUserPrefix, userID)
}

// modalReason extracts the reason text input from a submitted modal.
func modalReason(data discordgo.ModalSubmitInteractionData) string {
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			input, ok := inner.(*discordgo.TextInput)
			if !ok {
				continue
			}
			if input.CustomID == inputReason {
				return input.Value
			}
		}
	}
	return ""
}

// interactionUser returns the triggering user for guild or DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// userRef converts a discordgo user into the workflow's user reference.
func userRef(u *discordgo.User) report.User {
	if u == nil {
		return report.User{}
	}
	return report.User{
		ID:        parseSnowflake(u.ID),
		Name:      u.Username,
		AvatarURL: u.AvatarURL(""),
	}
}

// parseSnowflake parses a Discord id, returning zero for malformed input.
func parseSnowflake(id string) int64 {
	parsed, errParse := strconv.ParseInt(id, 10, 64)
	if errParse != nil {
		return 0
	}
	return parsed
}
