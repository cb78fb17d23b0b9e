package classcommands

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// OptionProvider attaches explicit Option descriptors to fields, keyed
// by field name. Tag metadata is the common path; an Option wins over
// tags for the fields it names.
type OptionProvider interface {
	Options() map[string]Option
}

// Binding is the static metadata of one command type, produced once by
// Bind and consumed by the registry, the registrar and the router. The
// command's Discord ID is assigned after registration; everything else
// is immutable.
type Binding struct {
	Name        string
	Description string
	Type        discordgo.ApplicationCommandType

	// Params lists parameters in field declaration order.
	Params []ParameterData

	// Renames maps parameter name to its wire name override.
	Renames map[string]string

	// Descriptions maps parameter name to its description.
	Descriptions map[string]string

	proto reflect.Type

	mu sync.Mutex
	id string
}

// ID returns the command's Discord-assigned ID, empty until the command
// has been registered or first invoked.
func (b *Binding) ID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// SetID records the ID Discord assigned to the command.
func (b *Binding) SetID(id string) {
	b.mu.Lock()
	b.id = id
	b.mu.Unlock()
}

// Bind inspects the prototype's struct fields and produces the
// command's Binding. It runs once per command type, not per invocation.
//
// Eligible fields are exported, non-func, not the embedded command base
// and not named Interaction, Session or Target. Each becomes one
// parameter, in declaration order. Metadata comes from the `option`,
// `description`, `default` and `autocomplete` struct tags, overridden
// by an explicit Option when the prototype implements OptionProvider.
func Bind(name, description string, prototype Handler) (*Binding, error) {
	v := reflect.ValueOf(prototype)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("command %q: prototype must be a pointer to struct, got %T", name, prototype)
	}
	typ := v.Elem().Type()

	var explicit map[string]Option
	if p, ok := prototype.(OptionProvider); ok {
		explicit = p.Options()
	}

	b := &Binding{
		Name:         name,
		Description:  description,
		Type:         prototype.commandType(),
		Renames:      make(map[string]string),
		Descriptions: make(map[string]string),
		proto:        typ,
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !eligible(field) {
			continue
		}

		ot, err := optionType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("command %q: field %s: %w", name, field.Name, err)
		}

		param := ParameterData{
			Name:  snakeCase(field.Name),
			Type:  ot,
			field: i,
		}

		var rename, desc string
		if tag, ok := field.Tag.Lookup("option"); ok && tag != "" {
			rename = tag
		}
		if tag, ok := field.Tag.Lookup("description"); ok && tag != "" {
			desc = tag
		}
		if tag, ok := field.Tag.Lookup("default"); ok {
			dv, err := parseDefault(tag, field.Type)
			if err != nil {
				return nil, fmt.Errorf("command %q: field %s: %w", name, field.Name, err)
			}
			param.Default = Some(dv)
		}
		if tag, ok := field.Tag.Lookup("autocomplete"); ok {
			param.Autocomplete = tag == "true"
		}

		if opt, ok := explicit[field.Name]; ok {
			if opt.Name != "" {
				rename = opt.Name
			}
			if opt.Description != "" {
				desc = opt.Description
			}
			if dv, given := opt.Default.Get(); given {
				if dv != nil && !reflect.TypeOf(dv).AssignableTo(field.Type) {
					return nil, fmt.Errorf("command %q: field %s: default %T is not assignable to %s",
						name, field.Name, dv, field.Type)
				}
				param.Default = Some(dv)
			}
			if opt.Autocomplete {
				param.Autocomplete = true
			}
		}

		b.Params = append(b.Params, param)
		if rename != "" {
			b.Renames[param.Name] = rename
		}
		if desc != "" {
			b.Descriptions[param.Name] = desc
		}
	}

	if b.Type == discordgo.UserApplicationCommand || b.Type == discordgo.MessageApplicationCommand {
		if len(b.Params) > 1 {
			return nil, fmt.Errorf("command %q: context menu commands must take exactly one argument", name)
		}
	}

	return b, nil
}

// MustBind is Bind for package-level declarations: a malformed command
// type is a programming error and panics.
func MustBind(name, description string, prototype Handler) *Binding {
	b, err := Bind(name, description, prototype)
	if err != nil {
		panic(err)
	}
	return b
}

// eligible reports whether a struct field becomes a command parameter.
func eligible(field reflect.StructField) bool {
	if field.PkgPath != "" || field.Anonymous {
		return false
	}
	switch field.Name {
	case "Interaction", "Session", "Target":
		return false
	}
	return field.Type.Kind() != reflect.Func
}

// parseDefault converts a `default` tag literal to the field's type.
func parseDefault(tag string, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.String:
		return tag, nil
	case reflect.Int:
		n, err := strconv.Atoi(tag)
		if err != nil {
			return nil, fmt.Errorf("bad default %q: %w", tag, err)
		}
		return n, nil
	case reflect.Int64:
		n, err := strconv.ParseInt(tag, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad default %q: %w", tag, err)
		}
		return n, nil
	case reflect.Float64:
		f, err := strconv.ParseFloat(tag, 64)
		if err != nil {
			return nil, fmt.Errorf("bad default %q: %w", tag, err)
		}
		return f, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(tag)
		if err != nil {
			return nil, fmt.Errorf("bad default %q: %w", tag, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("default tag not supported for %s", t)
}

// snakeCase converts a Go field name to its wire spelling, keeping
// acronym runs intact: "TargetChannel" -> "target_channel",
// "AvatarURL" -> "avatar_url".
func snakeCase(s string) string {
	runes := []rune(s)
	var out strings.Builder
	for i, r := range runes {
		if isUpper(r) {
			// Break before a capital that starts a word: one following
			// a lowercase rune, or one ending an acronym run.
			if i > 0 && (!isUpper(runes[i-1]) || (i+1 < len(runes) && !isUpper(runes[i+1]))) {
				out.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// wireName returns the name a parameter goes by on the wire.
func (b *Binding) wireName(p ParameterData) string {
	if n, ok := b.Renames[p.Name]; ok {
		return n
	}
	return p.Name
}

// paramByWireName resolves an incoming option name back to its
// parameter, reversing any rename.
func (b *Binding) paramByWireName(name string) (ParameterData, bool) {
	for _, p := range b.Params {
		if b.wireName(p) == name {
			return p, true
		}
	}
	return ParameterData{}, false
}

// instance mints a fresh command value for one invocation.
func (b *Binding) instance() Handler {
	return reflect.New(b.proto).Interface().(Handler)
}

// Definition builds the ApplicationCommand to register with Discord.
// Options are ordered required-first, as the API demands; ties keep
// declaration order.
func (b *Binding) Definition() *discordgo.ApplicationCommand {
	def := &discordgo.ApplicationCommand{
		Name: b.Name,
		Type: b.Type,
	}
	if b.Type != discordgo.ChatApplicationCommand {
		// Context menu commands carry no description and no options.
		return def
	}
	def.Description = b.Description

	params := make([]ParameterData, len(b.Params))
	copy(params, b.Params)
	sort.SliceStable(params, func(i, j int) bool {
		return params[i].Required() && !params[j].Required()
	})

	for _, p := range params {
		desc := b.Descriptions[p.Name]
		if desc == "" {
			desc = "…"
		}
		def.Options = append(def.Options, &discordgo.ApplicationCommandOption{
			Type:         p.Type,
			Name:         b.wireName(p),
			Description:  desc,
			Required:     p.Required(),
			Autocomplete: p.Autocomplete,
		})
	}
	return def
}
