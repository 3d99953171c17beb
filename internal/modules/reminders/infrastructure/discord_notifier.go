package infrastructure

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
	"github.com/kaedebot/kaede/internal/timeparse"
)

// DiscordNotifier delivers reminders through Discord. It posts to the
// channel the reminder was set in and falls back to the user's DMs when
// that channel is no longer reachable.
type DiscordNotifier struct {
	session *discordgo.Session
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{session: session}
}

// Deliver sends the reminder to its target channel.
func (n *DiscordNotifier) Deliver(_ context.Context, reminder domain.Reminder) error {
	message := &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", reminder.UserID),
		Embed: &discordgo.MessageEmbed{
			Title:       "Reminder",
			Description: reminder.Content,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Set %s ago", timeparse.Humanize(reminder.Delta)),
			},
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{reminder.UserID.String()},
		},
	}

	_, err := n.session.ChannelMessageSendComplex(reminder.ChannelID.String(), message)
	if err == nil {
		return nil
	}

	channel, dmErr := n.session.UserChannelCreate(reminder.UserID.String())
	if dmErr != nil {
		return fmt.Errorf("failed to deliver reminder %s: %w", reminder.ID, err)
	}
	if _, dmErr = n.session.ChannelMessageSendComplex(channel.ID, message); dmErr != nil {
		return fmt.Errorf("failed to deliver reminder %s via DM: %w", reminder.ID, dmErr)
	}
	return nil
}
