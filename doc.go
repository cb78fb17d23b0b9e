// Package classcommands lets a Discord application command be declared
// as a struct type instead of a handler function with decorated
// arguments. Exported struct fields become command options: the field's
// Go type picks the option type, struct tags (or an explicit Option)
// supply renames, descriptions, defaults and autocomplete flags, and a
// one-time reflection pass over the type produces the metadata used to
// register the command and to populate a fresh instance on every
// invocation.
//
//	type Ban struct {
//		classcommands.SlashCommand
//
//		Who    *discordgo.User `description:"Member to ban"`
//		Reason string          `option:"why" description:"Why" default:"spam"`
//	}
//
//	func (b *Ban) Callback(ctx context.Context) error {
//		_, err := b.Send(classcommands.Reply{
//			Content:   "banned " + b.Who.Username + ": " + b.Reason,
//			Ephemeral: true,
//		})
//		return err
//	}
//
//	classcommands.Register("ban", "Ban a member", &Ban{})
//
// The interaction lifecycle, transport and rate limiting all belong to
// github.com/bwmarrin/discordgo; this package only reflects types into
// command schemas, syncs them with Discord, and routes interactions to
// per-invocation instances.
package classcommands
