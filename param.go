package classcommands

import (
	"fmt"
	"reflect"

	"github.com/bwmarrin/discordgo"
)

// ParameterData is one materialized command parameter, derived from an
// eligible struct field during Bind. The dispatcher reads it to build
// the command's declared signature and to populate instances.
type ParameterData struct {
	// Name is the attribute name the parameter was derived from,
	// snake-cased. Renames are kept separately on the Binding.
	Name string

	// Type is the Discord option type mapped from the field's Go type.
	Type discordgo.ApplicationCommandOptionType

	// Default is the value used when the caller omits the option.
	// An unset Default makes the parameter required.
	Default Optional[any]

	// Autocomplete marks the option for autocomplete interactions.
	Autocomplete bool

	// field is the index of the source field in the prototype struct.
	field int
}

// Required reports whether the option must be supplied by the caller.
func (p ParameterData) Required() bool {
	return !p.Default.IsSet()
}

var (
	userType       = reflect.TypeOf((*discordgo.User)(nil))
	channelType    = reflect.TypeOf((*discordgo.Channel)(nil))
	roleType       = reflect.TypeOf((*discordgo.Role)(nil))
	attachmentType = reflect.TypeOf((*discordgo.MessageAttachment)(nil))
)

// optionType maps a struct field's Go type to the Discord option type
// that carries it on the wire.
func optionType(t reflect.Type) (discordgo.ApplicationCommandOptionType, error) {
	switch t {
	case userType:
		return discordgo.ApplicationCommandOptionUser, nil
	case channelType:
		return discordgo.ApplicationCommandOptionChannel, nil
	case roleType:
		return discordgo.ApplicationCommandOptionRole, nil
	case attachmentType:
		return discordgo.ApplicationCommandOptionAttachment, nil
	}
	switch t.Kind() {
	case reflect.String:
		return discordgo.ApplicationCommandOptionString, nil
	case reflect.Int, reflect.Int64:
		return discordgo.ApplicationCommandOptionInteger, nil
	case reflect.Float64:
		return discordgo.ApplicationCommandOptionNumber, nil
	case reflect.Bool:
		return discordgo.ApplicationCommandOptionBoolean, nil
	}
	return 0, fmt.Errorf("unsupported option type %s", t)
}
