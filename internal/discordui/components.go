package discordui

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/kaedebot/kaede/internal/menu"
)

// Component custom IDs take the form "menu:<token>:<action>"; the token
// routes a component interaction back to its session.
const customIDPrefix = "menu"

const (
	actionPrev   = "prev"
	actionNext   = "next"
	actionClose  = "close"
	actionSelect = "select"
)

func customID(token, action string) string {
	return customIDPrefix + ":" + token + ":" + action
}

// parseCustomID splits a component custom ID into its session token and
// action. ok is false for component IDs that do not belong to a menu.
func parseCustomID(id string) (token, action string, ok bool) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// buildComponents renders a payload's navigation controls: the page select
// (when a selector window is present) on the first row and the
// previous/close/next buttons below it.
func buildComponents(token string, p menu.Payload) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent

	if len(p.Options) > 0 {
		options := make([]discordgo.SelectMenuOption, len(p.Options))
		for i, opt := range p.Options {
			options[i] = discordgo.SelectMenuOption{
				Label:       opt.Label,
				Value:       strconv.Itoa(opt.Value),
				Description: opt.Description,
			}
		}
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    customID(token, actionSelect),
					Placeholder: "Choose a page",
					Options:     options,
					Disabled:    p.ControlsDisabled,
				},
			},
		})
	}

	rows = append(rows, discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "ᐊ",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(token, actionPrev),
				Disabled: p.ControlsDisabled,
			},
			discordgo.Button{
				Label:    "⨉",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(token, actionClose),
				Disabled: p.ControlsDisabled,
			},
			discordgo.Button{
				Label:    "ᐅ",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(token, actionNext),
				Disabled: p.ControlsDisabled,
			},
		},
	})

	return rows
}

func embedToDiscord(e *menu.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Color:       e.Color,
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return out
}
