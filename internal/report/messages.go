package report

import "fmt"

// Outcome classifies one submission attempt. The mapping to user-facing text
// happens here, once, so transports never branch on failure detail.
type Outcome int

const (
	// OutcomeFiled means the report thread was created.
	OutcomeFiled Outcome = iota
	// OutcomeNotConfigured means the guild has no usable report channel set.
	OutcomeNotConfigured
	// OutcomeResolutionFailed means the configured channel no longer resolves
	// or lost its report tag. The submitter sees the not-configured reply.
	OutcomeResolutionFailed
	// OutcomeInvalidReason means the reason failed the 1-500 character rule.
	OutcomeInvalidReason
	// OutcomeErrored means an unexpected failure was logged and masked.
	OutcomeErrored
)

const (
	replyFiled         = "Thanks for the report! Staff will get back to you about this"
	replyNotConfigured = "Reports have not been setup yet, Please get an admin to configure"
	replyInvalidReason = "A reason between 1 and 500 characters is required"
	replyErrored       = "Oops! Something went wrong. Please let the staff know"
)

// Reply returns the ephemeral reply text for the submitter.
func (o Outcome) Reply() string {
	switch o {
	case OutcomeFiled:
		return replyFiled
	case OutcomeNotConfigured, OutcomeResolutionFailed:
		return replyNotConfigured
	case OutcomeInvalidReason:
		return replyInvalidReason
	default:
		return replyErrored
	}
}

// ConfigureOutcome classifies one configuration attempt.
type ConfigureOutcome int

const (
	// ConfigureAccepted means the channel was validated and stored.
	ConfigureAccepted ConfigureOutcome = iota
	// ConfigureMissingTags means the candidate lacks a required tag; nothing
	// was written.
	ConfigureMissingTags
	// ConfigureUnavailable means the candidate did not resolve to a forum
	// channel.
	ConfigureUnavailable
	// ConfigureErrored means the store or transport failed.
	ConfigureErrored
)

// ConfigureResult is the outcome of a configuration attempt plus the
// resolved forum, when there is one, for mention formatting.
type ConfigureResult struct {
	Outcome ConfigureOutcome
	Forum   *Forum
}

// Reply returns the ephemeral reply text for the administrator.
func (r ConfigureResult) Reply() string {
	switch r.Outcome {
	case ConfigureAccepted:
		return fmt.Sprintf("%s has been configured as the report channel", r.Forum.Mention)
	case ConfigureMissingTags:
		return fmt.Sprintf("%s does not have the tags needed. (report & feedback)", r.Forum.Mention)
	case ConfigureUnavailable:
		return "That channel cannot be used for reports. Please pick a forum channel"
	default:
		return replyErrored
	}
}
