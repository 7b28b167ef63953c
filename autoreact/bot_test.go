package autoreact

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capybot/autoreact/config"
)

type reactCall struct {
	chatID    int64
	messageID int
	emoji     string
	big       bool
}

type replyCall struct {
	chatID    int64
	messageID int
	text      string
}

// fakeAPI is an in-memory API implementation recording outbound calls.
type fakeAPI struct {
	me         *telego.User
	meErr      error
	updates    chan telego.Update
	updatesErr error
	reactErr   error
	replyErr   error

	reacts  []reactCall
	replies []replyCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		me:      &telego.User{Username: "test_bot"},
		updates: make(chan telego.Update, 16),
	}
}

func (f *fakeAPI) Me(ctx context.Context) (*telego.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.me, nil
}

func (f *fakeAPI) Updates(ctx context.Context) (<-chan telego.Update, error) {
	if f.updatesErr != nil {
		return nil, f.updatesErr
	}
	return f.updates, nil
}

func (f *fakeAPI) React(ctx context.Context, chatID int64, messageID int, emoji string, big bool) error {
	f.reacts = append(f.reacts, reactCall{chatID, messageID, emoji, big})
	return f.reactErr
}

func (f *fakeAPI) Reply(ctx context.Context, chatID int64, messageID int, text string) error {
	f.replies = append(f.replies, replyCall{chatID, messageID, text})
	return f.replyErr
}

func testConfig() *config.Config {
	return &config.Config{
		Token:            "123:token",
		TargetStickerIDs: []string{"AgADZwADuRtZCw", "AgADLXUAAkw0aEk", "AgADtnYAAuLomUs"},
		ReactionEmoji:    "👎",
		ReplyText:        "Хейтер обнаружен! Атакую!",
		PollTimeoutSec:   20,
	}
}

func testBot(api API) *Bot {
	return New(testConfig(), api, zerolog.Nop())
}

func stickerUpdate(chatID int64, messageID int, stickerID string) telego.Update {
	return telego.Update{
		Message: &telego.Message{
			MessageID: messageID,
			Chat:      telego.Chat{ID: chatID},
			Sticker:   &telego.Sticker{FileUniqueID: stickerID},
		},
	}
}

func TestIgnoresNonStickerMessages(t *testing.T) {
	api := newFakeAPI()
	bot := testBot(api)

	bot.handleUpdate(context.Background(), telego.Update{
		Message: &telego.Message{
			MessageID: 1,
			Chat:      telego.Chat{ID: 42},
			Text:      "just text",
		},
	})
	bot.handleUpdate(context.Background(), telego.Update{})

	assert.Empty(t, api.reacts)
	assert.Empty(t, api.replies)
}

func TestIgnoresUnknownSticker(t *testing.T) {
	api := newFakeAPI()
	bot := testBot(api)

	bot.handleUpdate(context.Background(), stickerUpdate(42, 7, "unknown123"))

	assert.Empty(t, api.reacts)
	assert.Empty(t, api.replies)
}

func TestReactsToTargetSticker(t *testing.T) {
	api := newFakeAPI()
	bot := testBot(api)

	bot.handleUpdate(context.Background(), stickerUpdate(42, 7, "AgADZwADuRtZCw"))

	require.Len(t, api.reacts, 1)
	assert.Equal(t, reactCall{chatID: 42, messageID: 7, emoji: "👎", big: false}, api.reacts[0])

	require.Len(t, api.replies, 1)
	assert.Equal(t, replyCall{chatID: 42, messageID: 7, text: "Хейтер обнаружен! Атакую!"}, api.replies[0])
}

func TestEveryTargetStickerTriggers(t *testing.T) {
	api := newFakeAPI()
	bot := testBot(api)

	for i, id := range testConfig().TargetStickerIDs {
		bot.handleUpdate(context.Background(), stickerUpdate(42, i+1, id))
	}

	assert.Len(t, api.reacts, 3)
	assert.Len(t, api.replies, 3)
}

func TestReactionFailureSkipsReply(t *testing.T) {
	api := newFakeAPI()
	api.reactErr = &telegoapi.Error{ErrorCode: 403, Description: "Forbidden: not enough rights"}
	bot := testBot(api)

	bot.handleUpdate(context.Background(), stickerUpdate(42, 7, "AgADZwADuRtZCw"))

	assert.Len(t, api.reacts, 1)
	assert.Empty(t, api.replies)
}

func TestReplyFailureIsSwallowed(t *testing.T) {
	api := newFakeAPI()
	api.replyErr = &telegoapi.Error{ErrorCode: 400, Description: "Bad Request: chat not found"}
	bot := testBot(api)

	bot.handleUpdate(context.Background(), stickerUpdate(42, 7, "AgADZwADuRtZCw"))
	// next message still gets processed
	bot.handleUpdate(context.Background(), stickerUpdate(42, 8, "AgADLXUAAkw0aEk"))

	assert.Len(t, api.reacts, 2)
	assert.Len(t, api.replies, 2)
}

func TestRunProcessesStreamUntilClosed(t *testing.T) {
	api := newFakeAPI()
	bot := testBot(api)

	api.updates <- stickerUpdate(42, 7, "AgADZwADuRtZCw")
	api.updates <- stickerUpdate(42, 8, "unknown123")
	close(api.updates)

	err := bot.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, api.reacts, 1)
	assert.Len(t, api.replies, 1)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	api := newFakeAPI()
	bot := testBot(api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, bot.Run(ctx))
	assert.Empty(t, api.reacts)
}

func TestRunContinuesWithoutIdentity(t *testing.T) {
	api := newFakeAPI()
	api.meErr = errors.New("getMe: network unreachable")
	bot := testBot(api)

	api.updates <- stickerUpdate(42, 7, "AgADZwADuRtZCw")
	close(api.updates)

	require.NoError(t, bot.Run(context.Background()))
	assert.Len(t, api.reacts, 1)
}

func TestRunReturnsErrorWhenPollingFails(t *testing.T) {
	api := newFakeAPI()
	api.updatesErr = errors.New("getUpdates: connection refused")
	bot := testBot(api)

	err := bot.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "receive updates")
}
