package classcommands

import (
	"context"
	"log"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
)

// restSession is the subset of *discordgo.Session the command helpers
// talk through. Narrowed so Send/Defer can be exercised without a live
// gateway connection.
type restSession interface {
	InteractionRespond(*discordgo.Interaction, *discordgo.InteractionResponse, ...discordgo.RequestOption) error
	InteractionResponse(*discordgo.Interaction, ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(*discordgo.Interaction, bool, *discordgo.WebhookParams, ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(string, *discordgo.MessageSend, ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Handler is what every bound command type satisfies by embedding one of
// SlashCommand, UserCommand or MessageCommand. Callback and OnError are
// shadowed by the embedding type to supply behavior.
type Handler interface {
	Callback(ctx context.Context) error
	OnError(ctx context.Context, err error)

	base() *Command
	commandType() discordgo.ApplicationCommandType
}

// Autocompleter returns choices for the focused option of an
// autocomplete interaction. SlashCommand carries a no-op default;
// shadow it to implement completion.
type Autocompleter interface {
	Autocomplete(ctx context.Context, focused string) ([]*discordgo.ApplicationCommandOptionChoice, error)
}

// Command is the shared base of all command shapes. A fresh instance is
// created for every invocation; state set on an instance never survives
// into the next one.
type Command struct {
	// Interaction is the interaction that triggered the command.
	Interaction *discordgo.InteractionCreate

	// Session is the full session, for anything beyond Send/Defer.
	Session *discordgo.Session

	rest      restSession
	id        string
	responded bool
	now       func() time.Time
}

// ID returns the command's Discord-assigned ID. Empty until the command
// has been invoked or registered.
func (c *Command) ID() string { return c.id }

func (c *Command) base() *Command { return c }

// populate wires a fresh instance to its invocation. The router calls
// this before anything user-visible runs.
func (c *Command) populate(s *discordgo.Session, rest restSession, i *discordgo.InteractionCreate, id string) {
	c.Session = s
	c.rest = rest
	c.Interaction = i
	c.id = id
}

func (c *Command) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// Callback runs when the command is used. The base is a no-op; shadow
// it on the embedding type. Interaction, parameters and ID are all
// populated by the time it is called.
func (c *Command) Callback(ctx context.Context) error { return nil }

// OnError runs whenever Callback or Autocomplete fails. The default
// logs the error with a stack trace; shadow it to surface errors to the
// user instead.
func (c *Command) OnError(ctx context.Context, err error) {
	log.Printf("[ERR] command error: %v\n%s", err, debug.Stack())
}

// SlashCommand is the base for chat-input commands.
type SlashCommand struct {
	Command
}

func (SlashCommand) commandType() discordgo.ApplicationCommandType {
	return discordgo.ChatApplicationCommand
}

// Autocomplete is called for autocomplete interactions. The base
// returns no choices.
func (c *SlashCommand) Autocomplete(ctx context.Context, focused string) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	return nil, nil
}

// UserCommand is the base for user context-menu commands. These take
// exactly one implicit target and declare no further options.
type UserCommand struct {
	Command

	// Target is the user the command was invoked on.
	Target *discordgo.User
}

func (UserCommand) commandType() discordgo.ApplicationCommandType {
	return discordgo.UserApplicationCommand
}

// MessageCommand is the base for message context-menu commands.
type MessageCommand struct {
	Command

	// Target is the message the command was invoked on.
	Target *discordgo.Message
}

func (MessageCommand) commandType() discordgo.ApplicationCommandType {
	return discordgo.MessageApplicationCommand
}
