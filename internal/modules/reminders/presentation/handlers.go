package presentation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/bot"
	"github.com/kaedebot/kaede/internal/discordui"
	"github.com/kaedebot/kaede/internal/menu"
	"github.com/kaedebot/kaede/internal/modules/reminders/application/usecases"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
	"github.com/kaedebot/kaede/internal/timeparse"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

const listPerPage = 10

// Handlers holds all the command handlers.
type Handlers struct {
	reminders *usecases.ReminderService
	menus     *discordui.Manager
}

// NewHandlers creates new Handlers.
func NewHandlers(reminders *usecases.ReminderService, menus *discordui.Manager) *Handlers {
	return &Handlers{
		reminders: reminders,
		menus:     menus,
	}
}

// HandleRemind handles the /remind command.
func (h *Handlers) HandleRemind(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "set":
		return h.handleSet(i, r, subCmd.Options)
	case "list":
		return h.handleList(i, r)
	case "view":
		return h.handleView(i, r, subCmd.Options)
	case "cancel":
		return h.handleCancel(i, r, subCmd.Options)
	default:
		return respondError(r, "Unknown subcommand")
	}
}

func (h *Handlers) handleSet(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	var (
		in        string
		content   string
		repeating bool
	)
	for _, opt := range options {
		switch opt.Name {
		case "in":
			in = opt.StringValue()
		case "content":
			content = opt.StringValue()
		case "repeating":
			repeating = opt.BoolValue()
		}
	}

	delta, err := timeparse.ParseRelative(in)
	if err != nil {
		return respondError(r, fmt.Sprintf("Could not parse %q as a duration. Try something like `1h30m` or `2d`.", in))
	}

	output, err := h.reminders.Set(context.Background(), usecases.SetInput{
		UserID:    userID,
		ChannelID: channelID,
		Content:   content,
		Delta:     delta,
		Repeating: repeating,
	})
	if err != nil {
		return respondError(r, setErrorMessage(err))
	}

	description := fmt.Sprintf(
		"I will remind you about **%s** %s.",
		output.Reminder.Content,
		discordTimestamp(output.Reminder.EndTime()),
	)
	if output.Reminder.Repeating {
		description += fmt.Sprintf(" This repeats every %s.", timeparse.Humanize(output.Reminder.Delta))
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Reminder set",
					Description: description,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func (h *Handlers) handleList(i *discordgo.InteractionCreate, r bot.Responder) error {
	ctx := context.Background()

	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	output, err := h.reminders.List(ctx, usecases.ListInput{UserID: userID})
	if err != nil {
		return respondError(r, "Failed to load your reminders.")
	}
	if len(output.Reminders) == 0 {
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{
					{
						Description: "You have no reminders.",
						Color:       colorSuccess,
					},
				},
			},
		})
	}

	lines := make([]string, 0, len(output.Reminders))
	for idx, reminder := range output.Reminders {
		line := fmt.Sprintf(
			"%d\\. %s (%s)",
			idx+1,
			truncate(reminder.Content, 80),
			discordTimestamp(reminder.EndTime()),
		)
		if reminder.Repeating {
			line += " \U0001F501"
		}
		lines = append(lines, line)
	}

	source, err := menu.NewListSource(lines, menu.Config{
		PerPage:  listPerPage,
		UseEmbed: true,
		Template: &menu.Embed{
			Title: "Reminders",
			Color: colorSuccess,
		},
	})
	if err != nil {
		return respondError(r, "Failed to build the reminder list.")
	}

	session := menu.NewSession(source)
	if pages := source.PageCount(); pages > 1 {
		session.AttachSelector(menu.NewPageSelector(pages))
	}

	if err := h.menus.Open(ctx, session, i.Interaction, commandUser(i).ID); err != nil {
		return fmt.Errorf("failed to open reminder list menu: %w", err)
	}
	return nil
}

func (h *Handlers) handleView(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	id, ok := reminderIDOption(options)
	if !ok {
		return respondError(r, "No such reminder.")
	}

	output, err := h.reminders.View(context.Background(), usecases.ViewInput{
		UserID: userID,
		ID:     id,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrReminderNotFound) {
			return respondError(r, "No such reminder.")
		}
		return respondError(r, "Failed to load the reminder.")
	}

	reminder := output.Reminder
	embed := &discordgo.MessageEmbed{
		Title:       "Reminder",
		Description: reminder.Content,
		Color:       colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Due",
				Value:  discordTimestamp(reminder.EndTime()),
				Inline: true,
			},
		},
	}
	if reminder.Repeating {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Repeats every",
			Value:  timeparse.Humanize(reminder.Delta),
			Inline: true,
		})
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func (h *Handlers) handleCancel(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	id, ok := reminderIDOption(options)
	if !ok {
		return respondError(r, "No such reminder.")
	}

	err = h.reminders.Cancel(context.Background(), usecases.CancelInput{
		UserID: userID,
		ID:     id,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrReminderNotFound) {
			return respondError(r, "No such reminder.")
		}
		return respondError(r, "Failed to cancel the reminder.")
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: "Cancelled the reminder.",
					Color:       colorSuccess,
				},
			},
		},
	})
}

func setErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecases.ErrEmptyContent):
		return "Reminder content must not be empty."
	case errors.Is(err, usecases.ErrContentTooLong):
		return fmt.Sprintf("Reminder content is limited to %d characters.", domain.MaxContentLength)
	case errors.Is(err, usecases.ErrInvalidDelta):
		return "The reminder must be set in the future."
	case errors.Is(err, usecases.ErrRepeatingTooShort):
		return fmt.Sprintf(
			"Repeating reminders must be at least %s apart.",
			timeparse.Humanize(domain.MinRepeatingDelta),
		)
	case errors.Is(err, usecases.ErrTooManyReminders):
		return fmt.Sprintf("You already have %d reminders. Cancel one first.", domain.MaxPerUser)
	default:
		return "Failed to set the reminder."
	}
}

func reminderIDOption(
	options []*discordgo.ApplicationCommandInteractionDataOption,
) (uuid.UUID, bool) {
	for _, opt := range options {
		if opt.Name == "reminder" {
			id, err := uuid.Parse(opt.StringValue())
			if err != nil {
				return uuid.UUID{}, false
			}
			return id, true
		}
	}
	return uuid.UUID{}, false
}

// discordTimestamp renders t as Discord's relative timestamp markup.
func discordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// commandUser returns the invoking user for both guild and DM interactions.
func commandUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
