// Package report implements the guild report workflow: configuring the forum
// channel that receives reports, and filing message or user reports into it
// as tagged threads. The chat platform and the settings store are reached
// only through ports so the workflow stays testable against fakes.
package report

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/sentinelbot/sentinel/internal/settings"
)

// Tag names a forum channel must expose before it can receive reports.
const (
	TagReport   = "report"
	TagFeedback = "feedback"
)

// MaxReasonLength bounds the free-text reason on a submission, counted in
// characters to match what the input surface enforces.
const MaxReasonLength = 500

// Tag is a category label available on a forum channel.
type Tag struct {
	ID   string
	Name string
}

// Forum is the workflow's view of a forum channel.
type Forum struct {
	ID      int64
	Name    string
	Mention string
	Tags    []Tag
}

// Tag returns the forum tag with the exact given name.
func (f *Forum) Tag(name string) (Tag, bool) {
	for _, tag := range f.Tags {
		if tag.Name == name {
			return tag, true
		}
	}
	return Tag{}, false
}

// HasTags reports whether every named tag is present on the forum.
func (f *Forum) HasTags(names ...string) bool {
	for _, name := range names {
		if _, ok := f.Tag(name); !ok {
			return false
		}
	}
	return true
}

// User identifies a platform user referenced by a ticket.
type User struct {
	ID        int64
	Name      string
	AvatarURL string
}

// Mention renders the user as a platform mention.
func (u User) Mention() string {
	return fmt.Sprintf("<@%d>", u.ID)
}

// Message is the subject of a message report.
type Message struct {
	ID        int64
	Author    User
	Content   string
	CreatedAt time.Time
}

// Submission is one report attempt. It lives for a single workflow run.
type Submission struct {
	Reporter   User
	Reason     string
	ReportedAt time.Time
}

// Ticket is the structured body of a report thread. Fields stay discrete so
// the receiving thread is uniformly shaped for both report kinds.
type Ticket struct {
	Kind        string
	Subject     User
	Content     string
	SubjectTime *time.Time
	Reporter    User
	ReportedAt  time.Time
	Reason      string
}

// Thread is a request to open one report thread in a forum channel.
type Thread struct {
	Name   string
	Tag    Tag
	Ticket Ticket
}

// ChannelClient is the chat-platform port the workflow depends on. A channel
// that does not resolve, or resolves to something other than a forum channel,
// is reported as a nil Forum without error; errors are transport failures.
type ChannelClient interface {
	ForumChannel(ctx context.Context, id int64) (*Forum, error)
	CreateThread(ctx context.Context, forumID int64, thread Thread) error
}

// Workflow orchestrates report configuration and submission for all guilds.
type Workflow struct {
	store    settings.Store
	channels ChannelClient
}

// New constructs a Workflow over the given ports.
func New(store settings.Store, channels ChannelClient) *Workflow {
	return &Workflow{store: store, channels: channels}
}

// Configure designates a forum channel as a guild's report channel. The
// candidate must expose both required tags; a candidate missing either is
// rejected and nothing is written. The returned error carries store or
// transport failures only, never a rejected candidate.
func (w *Workflow) Configure(ctx context.Context, guildID, channelID int64) (ConfigureResult, error) {
	forum, err := w.channels.ForumChannel(ctx, channelID)
	if err != nil {
		return ConfigureResult{Outcome: ConfigureErrored}, fmt.Errorf("report: configure guild %d: %w", guildID, err)
	}
	if forum == nil {
		return ConfigureResult{Outcome: ConfigureUnavailable}, nil
	}
	if !forum.HasTags(TagReport, TagFeedback) {
		return ConfigureResult{Outcome: ConfigureMissingTags, Forum: forum}, nil
	}

	rec, err := w.store.Get(ctx, guildID)
	if err != nil {
		return ConfigureResult{Outcome: ConfigureErrored}, err
	}
	if rec == nil {
		log.WithField("guild_id", guildID).Info("creating report settings for guild")
		rec = &settings.Record{GuildID: guildID}
	}
	channel := channelID
	rec.ReportChannel = &channel
	if _, err := w.store.Set(ctx, rec); err != nil {
		return ConfigureResult{Outcome: ConfigureErrored}, err
	}
	return ConfigureResult{Outcome: ConfigureAccepted, Forum: forum}, nil
}

// SubmitMessage files a report against a message.
func (w *Workflow) SubmitMessage(ctx context.Context, guildID int64, sub Submission, msg Message) (Outcome, error) {
	created := msg.CreatedAt
	ticket := Ticket{
		Kind:        "Message Report",
		Subject:     msg.Author,
		Content:     msg.Content,
		SubjectTime: &created,
		Reporter:    sub.Reporter,
		ReportedAt:  sub.ReportedAt,
		Reason:      sub.Reason,
	}
	return w.file(ctx, guildID, ticket, fmt.Sprintf("Message Report: %d", msg.ID))
}

// SubmitUser files a report against a user.
func (w *Workflow) SubmitUser(ctx context.Context, guildID int64, sub Submission, user User) (Outcome, error) {
	ticket := Ticket{
		Kind:       "User Report",
		Subject:    user,
		Reporter:   sub.Reporter,
		ReportedAt: sub.ReportedAt,
		Reason:     sub.Reason,
	}
	return w.file(ctx, guildID, ticket, fmt.Sprintf("User Report: %s (%d)", user.Name, user.ID))
}

// file resolves the guild's configuration fresh and creates the report
// thread. Store failures propagate; everything that goes wrong during the
// filing itself is logged and folded into an outcome so the submitter only
// ever sees the mapped reply.
func (w *Workflow) file(ctx context.Context, guildID int64, ticket Ticket, threadName string) (Outcome, error) {
	if ticket.Reason == "" || utf8.RuneCountInString(ticket.Reason) > MaxReasonLength {
		return OutcomeInvalidReason, nil
	}

	rec, err := w.store.Get(ctx, guildID)
	if err != nil {
		return OutcomeErrored, err
	}
	if rec == nil || rec.ReportChannel == nil {
		return OutcomeNotConfigured, nil
	}

	fields := log.Fields{"guild_id": guildID, "report_channel": *rec.ReportChannel}

	forum, err := w.channels.ForumChannel(ctx, *rec.ReportChannel)
	if err != nil {
		log.WithFields(fields).WithError(err).Error("report channel lookup failed")
		return OutcomeErrored, nil
	}
	if forum == nil {
		log.WithFields(fields).Warn("configured report channel no longer resolves")
		return OutcomeResolutionFailed, nil
	}
	tag, ok := forum.Tag(TagReport)
	if !ok {
		log.WithFields(fields).Warn("configured report channel lost its report tag")
		return OutcomeResolutionFailed, nil
	}

	thread := Thread{Name: threadName, Tag: tag, Ticket: ticket}
	if err := w.channels.CreateThread(ctx, forum.ID, thread); err != nil {
		log.WithFields(fields).WithError(err).Error("report thread creation failed")
		return OutcomeErrored, nil
	}

	log.WithFields(fields).WithField("thread", threadName).Info("report filed")
	return OutcomeFiled, nil
}
