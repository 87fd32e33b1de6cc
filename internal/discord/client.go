// Package discord adapts the report workflow to Discord: it implements the
// workflow's channel port on a discordgo session and dispatches the slash
// command, context menus and modals that drive it.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sentinelbot/sentinel/internal/report"
)

// threadAutoArchiveMinutes is the auto-archive duration for report threads.
const threadAutoArchiveMinutes = 1440

// Channels implements report.ChannelClient on a discordgo session.
type Channels struct {
	session *discordgo.Session
}

// NewChannels constructs a Channels adapter.
func NewChannels(session *discordgo.Session) *Channels {
	return &Channels{session: session}
}

// ForumChannel resolves a channel id to a forum channel view. A channel that
// is gone, inaccessible or not a forum channel resolves to nil without error.
func (c *Channels) ForumChannel(ctx context.Context, id int64) (*report.Forum, error) {
	ch, err := c.session.Channel(strconv.FormatInt(id, 10), discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil &&
			(restErr.Response.StatusCode == http.StatusNotFound || restErr.Response.StatusCode == http.StatusForbidden) {
			return nil, nil
		}
		return nil, fmt.Errorf("discord: fetch channel %d: %w", id, err)
	}
	if ch.Type != discordgo.ChannelTypeGuildForum {
		return nil, nil
	}

	forum := &report.Forum{ID: id, Name: ch.Name, Mention: ch.Mention()}
	for _, tag := range ch.AvailableTags {
		forum.Tags = append(forum.Tags, report.Tag{ID: tag.ID, Name: tag.Name})
	}
	return forum, nil
}

// CreateThread opens a tagged forum thread carrying the ticket embed.
func (c *Channels) CreateThread(ctx context.Context, forumID int64, thread report.Thread) error {
	_, err := c.session.ForumThreadStartComplex(strconv.FormatInt(forumID, 10),
		&discordgo.ThreadStart{
			Name:                thread.Name,
			AutoArchiveDuration: threadAutoArchiveMinutes,
			AppliedTags:         []string{thread.Tag.ID},
		},
		&discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{ticketEmbed(thread.Ticket)},
		},
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: start thread in %d: %w", forumID, err)
	}
	return nil
}

// ticketEmbed renders a ticket as the report thread's opening embed.
func ticketEmbed(ticket report.Ticket) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: ticket.Kind,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    ticket.Subject.Name,
			IconURL: ticket.Subject.AvatarURL,
		},
	}
	if ticket.Content != "" {
		embed.Description = ticket.Content
	}
	if ticket.SubjectTime != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Message Created At",
			Value: discordTimestamp(*ticket.SubjectTime),
		})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Reported At", Value: discordTimestamp(ticket.ReportedAt)},
		&discordgo.MessageEmbedField{Name: "Reported By", Value: ticket.Reporter.Mention()},
		&discordgo.MessageEmbedField{Name: "Reason", Value: ticket.Reason},
	)
	return embed
}

// discordTimestamp renders a time as Discord's full-date timestamp markup.
func discordTimestamp(ts time.Time) string {
	return fmt.Sprintf("<t:%d:F>", ts.Unix())
}
