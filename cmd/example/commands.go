package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	classcommands "github.com/Chiggy-Playz/discord-class-commands"
)

// Roll rolls dice. Both options are optional, so /roll alone works.
type Roll struct {
	classcommands.SlashCommand

	Sides int    `description:"Number of sides per die" default:"6"`
	Count int    `description:"How many dice to roll" default:"1"`
	Mode  string `description:"Scoring mode" default:"sum" autocomplete:"true"`
}

var rollModes = []string{"sum", "highest", "lowest"}

func rollDice(count, sides int, mode string) int {
	total, highest, lowest := 0, 0, sides+1
	for i := 0; i < count; i++ {
		v := rand.Intn(sides) + 1
		total += v
		if v > highest {
			highest = v
		}
		if v < lowest {
			lowest = v
		}
	}
	switch mode {
	case "highest":
		return highest
	case "lowest":
		return lowest
	}
	return total
}

func (r *Roll) Callback(ctx context.Context) error {
	if r.Count < 1 || r.Count > 20 || r.Sides < 2 {
		_, err := r.Send(classcommands.Reply{
			Content:   "Roll up to 20 dice with at least 2 sides each.",
			Ephemeral: true,
		})
		return err
	}
	total := rollDice(r.Count, r.Sides, r.Mode)
	_, err := r.Send(classcommands.Reply{
		Embeds: []*discordgo.MessageEmbed{
			embed.NewGenericEmbed("Roll", "🎲 %dd%d (%s): **%d**", r.Count, r.Sides, r.Mode, total),
		},
	})
	return err
}

func (r *Roll) Autocomplete(ctx context.Context, focused string) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	if focused != "mode" {
		return nil, nil
	}
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, m := range rollModes {
		if strings.HasPrefix(m, strings.ToLower(r.Mode)) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: m, Value: m})
		}
	}
	return choices, nil
}

// Avatar shows the avatar of the user the context menu was opened on.
type Avatar struct {
	classcommands.UserCommand
}

func (a *Avatar) Callback(ctx context.Context) error {
	_, err := a.Send(classcommands.Reply{
		Embeds: []*discordgo.MessageEmbed{
			embed.NewEmbed().
				SetTitle(a.Target.Username).
				SetImage(a.Target.AvatarURL("512")).
				MessageEmbed,
		},
		Ephemeral: true,
	})
	return err
}

// Quote reposts the selected message as an attributed quote.
type Quote struct {
	classcommands.MessageCommand
}

func (q *Quote) Callback(ctx context.Context) error {
	if q.Target.Content == "" {
		_, err := q.Send(classcommands.Reply{
			Content:   "That message has no quotable text.",
			Ephemeral: true,
		})
		return err
	}
	_, err := q.Send(classcommands.Reply{
		Content: fmt.Sprintf("> %s\n— %s", q.Target.Content, q.Target.Author.Username),
	})
	return err
}

func init() {
	classcommands.Register("roll", "Roll some dice", &Roll{})
	classcommands.Register("Avatar", "", &Avatar{})
	classcommands.Register("Quote", "", &Quote{})
}
