package classcommands

import (
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

// fakeRest records the transport path Send and Defer picked.
type fakeRest struct {
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams
	channel   []*discordgo.MessageSend

	followupWait bool
	fetched      int
	msg          *discordgo.Message
}

func (f *fakeRest) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeRest) InteractionResponse(_ *discordgo.Interaction, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.fetched++
	return f.msg, nil
}

func (f *fakeRest) FollowupMessageCreate(_ *discordgo.Interaction, wait bool, params *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followupWait = wait
	f.followups = append(f.followups, params)
	return f.msg, nil
}

func (f *fakeRest) ChannelMessageSendComplex(_ string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel = append(f.channel, data)
	return f.msg, nil
}

const discordEpochMillis = 1420070400000

// snowflakeAt builds an interaction ID whose embedded timestamp is ts.
func snowflakeAt(ts time.Time) string {
	return strconv.FormatInt((ts.UnixMilli()-discordEpochMillis)<<22, 10)
}

func testCommand(t *testing.T, age time.Duration) (*Command, *fakeRest) {
	t.Helper()
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rest := &fakeRest{msg: &discordgo.Message{ID: "m-1"}}
	c := &Command{
		Interaction: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				ID:        snowflakeAt(created),
				ChannelID: "chan-1",
			},
		},
		rest: rest,
		now:  func() time.Time { return created.Add(age) },
	}
	return c, rest
}

func TestSendInitialRespondsThenFetches(t *testing.T) {
	c, rest := testCommand(t, time.Second)

	msg, err := c.Send(Reply{Content: "hi", Ephemeral: true})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(rest.responses) != 1 || rest.fetched != 1 {
		t.Fatalf("want one response and one fetch, got %d/%d", len(rest.responses), rest.fetched)
	}
	resp := rest.responses[0]
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("response type = %d", resp.Type)
	}
	if resp.Data.Content != "hi" {
		t.Errorf("content = %q", resp.Data.Content)
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("ephemeral flag not set on initial response")
	}
	if msg == nil || msg.ID != "m-1" {
		t.Errorf("returned message = %+v", msg)
	}
	if !c.responded {
		t.Error("instance must be marked responded")
	}
}

func TestSendAfterResponseUsesFollowup(t *testing.T) {
	c, rest := testCommand(t, time.Second)
	c.responded = true

	if _, err := c.Send(Reply{Content: "more"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(rest.followups) != 1 {
		t.Fatalf("want one followup, got %d (responses=%d channel=%d)",
			len(rest.followups), len(rest.responses), len(rest.channel))
	}
	if !rest.followupWait {
		t.Error("followup must wait for the resulting message")
	}
}

func TestSendExpiredFallsBackToChannel(t *testing.T) {
	c, rest := testCommand(t, 20*time.Minute)

	if _, err := c.Send(Reply{Content: "late", Ephemeral: true, SuppressEmbeds: true}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(rest.channel) != 1 || len(rest.responses) != 0 || len(rest.followups) != 0 {
		t.Fatalf("want only a channel send, got responses=%d followups=%d channel=%d",
			len(rest.responses), len(rest.followups), len(rest.channel))
	}
	sent := rest.channel[0]
	if sent.Flags&discordgo.MessageFlagsEphemeral != 0 {
		t.Error("ephemeral must not be forwarded on the expired path")
	}
	if sent.Flags&discordgo.MessageFlagsSuppressEmbeds == 0 {
		t.Error("suppress-embeds flag was dropped")
	}
}

func TestDeferMarksResponded(t *testing.T) {
	c, rest := testCommand(t, time.Second)

	if err := c.Defer(true); err != nil {
		t.Fatalf("Defer: %v", err)
	}
	if len(rest.responses) != 1 {
		t.Fatalf("want one response, got %d", len(rest.responses))
	}
	if rest.responses[0].Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Errorf("response type = %d", rest.responses[0].Type)
	}
	if !c.responded {
		t.Error("Defer must mark the instance responded")
	}

	// A send after the deferral goes out as a followup.
	if _, err := c.Send(Reply{Content: "done"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(rest.followups) != 1 {
		t.Error("post-defer send must be a followup")
	}
}
