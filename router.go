package classcommands

import (
	"context"
	"fmt"
	"log"
	"reflect"

	"github.com/bwmarrin/discordgo"
)

type userTargeted interface{ setTarget(*discordgo.User) }
type messageTargeted interface{ setTarget(*discordgo.Message) }

func (c *UserCommand) setTarget(u *discordgo.User) { c.Target = u }

func (c *MessageCommand) setTarget(m *discordgo.Message) { c.Target = m }

// Router dispatches application-command and autocomplete interactions
// to registered command types. Every invocation gets a fresh instance;
// nothing set on one instance is visible to the next.
type Router struct {
	registry *Registry

	// rest overrides the session used by Send/Defer, for tests.
	rest restSession
}

// NewRouter returns a router over the given registry, or the default
// registry when nil.
func NewRouter(reg *Registry) *Router {
	if reg == nil {
		reg = DefaultRegistry
	}
	return &Router{registry: reg}
}

// HandleInteraction is a discordgo handler:
//
//	session.AddHandler(router.HandleInteraction)
func (r *Router) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.invoke(context.Background(), s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		r.autocomplete(context.Background(), s, i)
	}
}

func (r *Router) session(s *discordgo.Session) restSession {
	if r.rest != nil {
		return r.rest
	}
	return s
}

// invoke runs one command invocation end to end: fresh instance,
// ID stamp, parameter decode, target resolution, callback, and error
// routing to the instance's OnError.
func (r *Router) invoke(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	b := r.registry.Get(data.Name)
	if b == nil {
		log.Printf("[WARN] unknown command: %s", data.Name)
		return
	}
	b.SetID(data.ID)

	inst := b.instance()
	inst.base().populate(s, r.session(s), i, data.ID)

	// The recover must cover decode as well: discordgo's typed option
	// extractors panic on malformed values.
	defer func() {
		if rec := recover(); rec != nil {
			inst.OnError(ctx, fmt.Errorf("panic in %s: %v", b.Name, rec))
		}
	}()

	if err := r.decode(b, inst, s, i); err != nil {
		inst.OnError(ctx, err)
		return
	}
	r.resolveTarget(b, inst, data)

	if err := inst.Callback(ctx); err != nil {
		inst.OnError(ctx, err)
	}
}

// autocomplete populates the instance with the options supplied so far
// and answers with the choices the command's Autocomplete hook returns.
func (r *Router) autocomplete(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	b := r.registry.Get(data.Name)
	if b == nil {
		log.Printf("[WARN] unknown autocomplete target: %s", data.Name)
		return
	}

	inst := b.instance()
	inst.base().populate(s, r.session(s), i, data.ID)

	ac, ok := inst.(Autocompleter)
	if !ok {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			inst.OnError(ctx, fmt.Errorf("panic in %s autocomplete: %v", b.Name, rec))
		}
	}()

	if err := r.decode(b, inst, s, i); err != nil {
		inst.OnError(ctx, err)
		return
	}

	focused := ""
	for _, opt := range data.Options {
		if opt.Focused {
			if p, ok := b.paramByWireName(opt.Name); ok {
				focused = p.Name
			}
			break
		}
	}

	choices, err := ac.Autocomplete(ctx, focused)
	if err != nil {
		inst.OnError(ctx, err)
		return
	}
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	err = r.session(s).InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		inst.OnError(ctx, fmt.Errorf("autocomplete response: %w", err))
	}
}

// decode writes supplied option values into the instance's fields and
// fills declared defaults for omitted optional parameters.
func (r *Router) decode(b *Binding, inst Handler, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	supplied := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		supplied[opt.Name] = opt
	}

	ev := reflect.ValueOf(inst).Elem()
	for _, p := range b.Params {
		field := ev.Field(p.field)
		opt, ok := supplied[b.wireName(p)]
		if !ok {
			if dv, given := p.Default.Get(); given && dv != nil {
				field.Set(reflect.ValueOf(dv).Convert(field.Type()))
			}
			continue
		}
		if err := setOption(field, p, opt, s, i); err != nil {
			return fmt.Errorf("command %s: option %s: %w", b.Name, opt.Name, err)
		}
	}
	return nil
}

func setOption(field reflect.Value, p ParameterData, opt *discordgo.ApplicationCommandInteractionDataOption, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	switch p.Type {
	case discordgo.ApplicationCommandOptionString:
		field.SetString(opt.StringValue())
	case discordgo.ApplicationCommandOptionInteger:
		field.SetInt(opt.IntValue())
	case discordgo.ApplicationCommandOptionNumber:
		field.SetFloat(opt.FloatValue())
	case discordgo.ApplicationCommandOptionBoolean:
		field.SetBool(opt.BoolValue())
	case discordgo.ApplicationCommandOptionUser:
		field.Set(reflect.ValueOf(opt.UserValue(s)))
	case discordgo.ApplicationCommandOptionChannel:
		field.Set(reflect.ValueOf(opt.ChannelValue(s)))
	case discordgo.ApplicationCommandOptionRole:
		field.Set(reflect.ValueOf(opt.RoleValue(s, i.GuildID)))
	case discordgo.ApplicationCommandOptionAttachment:
		id, ok := opt.Value.(string)
		if !ok {
			return fmt.Errorf("attachment option carries %T, want id", opt.Value)
		}
		resolved := i.ApplicationCommandData().Resolved
		if resolved == nil || resolved.Attachments[id] == nil {
			return fmt.Errorf("attachment %s not resolved", id)
		}
		field.Set(reflect.ValueOf(resolved.Attachments[id]))
	default:
		return fmt.Errorf("unhandled option type %d", p.Type)
	}
	return nil
}

// resolveTarget fills Target on context-menu commands from the
// interaction's resolved data. If the command declared its single
// permitted parameter and the target fits it, that field is set too.
func (r *Router) resolveTarget(b *Binding, inst Handler, data discordgo.ApplicationCommandInteractionData) {
	if data.Resolved == nil || data.TargetID == "" {
		return
	}
	switch b.Type {
	case discordgo.UserApplicationCommand:
		user := data.Resolved.Users[data.TargetID]
		if user == nil {
			return
		}
		if t, ok := inst.(userTargeted); ok {
			t.setTarget(user)
		}
		assignTargetParam(b, inst, reflect.ValueOf(user))
	case discordgo.MessageApplicationCommand:
		msg := data.Resolved.Messages[data.TargetID]
		if msg == nil {
			return
		}
		if t, ok := inst.(messageTargeted); ok {
			t.setTarget(msg)
		}
		assignTargetParam(b, inst, reflect.ValueOf(msg))
	}
}

func assignTargetParam(b *Binding, inst Handler, target reflect.Value) {
	if len(b.Params) != 1 {
		return
	}
	field := reflect.ValueOf(inst).Elem().Field(b.Params[0].field)
	if target.Type().AssignableTo(field.Type()) {
		field.Set(target)
	}
}
