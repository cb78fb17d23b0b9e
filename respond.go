package classcommands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// interactionLifetime is how long an interaction token stays usable.
// Past it, replies fall back to plain channel sends.
const interactionLifetime = 15 * time.Minute

// responseState is where an interaction is in its response lifecycle.
// Send dispatches exhaustively on it.
type responseState int

const (
	// stateInitial: no response has been given yet.
	stateInitial responseState = iota
	// stateResponded: an initial response or deferral went out; further
	// replies must be followups.
	stateResponded
	// stateExpired: the interaction token is no longer valid.
	stateExpired
)

// Reply is the content of a response routed through Send.
type Reply struct {
	Content         string
	TTS             bool
	Embeds          []*discordgo.MessageEmbed
	Files           []*discordgo.File
	Components      []discordgo.MessageComponent
	AllowedMentions *discordgo.MessageAllowedMentions
	SuppressEmbeds  bool

	// Ephemeral hides the reply from everyone but the invoker. Ignored
	// on the expired-interaction fallback path, which cannot express it.
	Ephemeral bool
}

func (r Reply) flags() discordgo.MessageFlags {
	var f discordgo.MessageFlags
	if r.SuppressEmbeds {
		f |= discordgo.MessageFlagsSuppressEmbeds
	}
	if r.Ephemeral {
		f |= discordgo.MessageFlagsEphemeral
	}
	return f
}

func (c *Command) state() responseState {
	if ts, err := discordgo.SnowflakeTimestamp(c.Interaction.ID); err == nil {
		if c.clock().Sub(ts) > interactionLifetime {
			return stateExpired
		}
	}
	if c.responded {
		return stateResponded
	}
	return stateInitial
}

// Send replies to the interaction, picking the transport that is still
// valid for its state: the initial interaction response (then fetching
// the resulting message), a followup if a response already went out, or
// a plain channel send once the interaction has expired.
func (c *Command) Send(reply Reply) (*discordgo.Message, error) {
	switch c.state() {
	case stateExpired:
		flags := reply.flags() &^ discordgo.MessageFlagsEphemeral
		return c.rest.ChannelMessageSendComplex(c.Interaction.ChannelID, &discordgo.MessageSend{
			Content:         reply.Content,
			TTS:             reply.TTS,
			Embeds:          reply.Embeds,
			Files:           reply.Files,
			Components:      reply.Components,
			AllowedMentions: reply.AllowedMentions,
			Flags:           flags,
		})

	case stateResponded:
		return c.rest.FollowupMessageCreate(c.Interaction.Interaction, true, &discordgo.WebhookParams{
			Content:         reply.Content,
			TTS:             reply.TTS,
			Embeds:          reply.Embeds,
			Files:           reply.Files,
			Components:      reply.Components,
			AllowedMentions: reply.AllowedMentions,
			Flags:           reply.flags(),
		})

	default:
		err := c.rest.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:         reply.Content,
				TTS:             reply.TTS,
				Embeds:          reply.Embeds,
				Files:           reply.Files,
				Components:      reply.Components,
				AllowedMentions: reply.AllowedMentions,
				Flags:           reply.flags(),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("interaction response: %w", err)
		}
		c.responded = true
		return c.rest.InteractionResponse(c.Interaction.Interaction)
	}
}

// Defer acknowledges the interaction without replying, buying time for
// a followup sent later.
func (c *Command) Defer(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := c.rest.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("defer interaction: %w", err)
	}
	c.responded = true
	return nil
}
