package discordui

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/kaedebot/kaede/internal/menu"
)

// messageHandle locates the message a menu session renders to.
type messageHandle struct {
	channelID string
	messageID string
}

// interactionSink implements menu.Sink against discordgo. The first render
// responds to the originating slash-command interaction; subsequent updates
// and deletion go through the channel message API, which keeps working
// after the interaction token expires.
type interactionSink struct {
	rest        *discordgo.Session
	interaction *discordgo.Interaction
	token       string
}

var _ menu.Sink = (*interactionSink)(nil)

func (s *interactionSink) Create(_ context.Context, p menu.Payload) (menu.Handle, error) {
	data := &discordgo.InteractionResponseData{
		Components: buildComponents(s.token, p),
	}
	if p.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{embedToDiscord(p.Embed)}
	} else {
		data.Content = p.Content
	}

	err := s.rest.InteractionRespond(s.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return nil, mapRESTError(err)
	}

	msg, err := s.rest.InteractionResponse(s.interaction)
	if err != nil {
		return nil, fmt.Errorf("fetching menu message: %w", mapRESTError(err))
	}
	return messageHandle{channelID: msg.ChannelID, messageID: msg.ID}, nil
}

func (s *interactionSink) Update(_ context.Context, h menu.Handle, p menu.Payload) error {
	handle, ok := h.(messageHandle)
	if !ok {
		return fmt.Errorf("unexpected handle type %T", h)
	}

	components := buildComponents(s.token, p)
	edit := &discordgo.MessageEdit{
		Channel:    handle.channelID,
		ID:         handle.messageID,
		Components: &components,
	}
	if p.Embed != nil {
		edit.Embeds = &[]*discordgo.MessageEmbed{embedToDiscord(p.Embed)}
	} else {
		edit.Content = &p.Content
	}

	if _, err := s.rest.ChannelMessageEditComplex(edit); err != nil {
		return mapRESTError(err)
	}
	return nil
}

func (s *interactionSink) Delete(_ context.Context, h menu.Handle) error {
	handle, ok := h.(messageHandle)
	if !ok {
		return fmt.Errorf("unexpected handle type %T", h)
	}

	if err := s.rest.ChannelMessageDelete(handle.channelID, handle.messageID); err != nil {
		return mapRESTError(err)
	}
	return nil
}

// mapRESTError translates "the message is gone" REST failures into
// menu.ErrSurfaceGone so the session can finalize instead of failing.
func mapRESTError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage,
			discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeUnknownInteraction:
			return fmt.Errorf("%w: %v", menu.ErrSurfaceGone, err)
		}
	}
	return err
}
