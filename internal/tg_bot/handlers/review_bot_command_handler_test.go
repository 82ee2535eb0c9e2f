package handlers

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	mock_repositories "application_review_system/internal/db/repositories/mocks"
	"application_review_system/internal/tg_bot/commands"
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type recordingCommand struct {
	name      string
	arguments string
	user      *models.User
}

func (c *recordingCommand) CanHandle(command string) bool {
	return command == c.name
}

func (c *recordingCommand) Handle(ctx context.Context, arguments string, user *models.User, chatID int64) []tgbotapi.Chattable {
	c.arguments = arguments
	c.user = user
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "handled "+c.name)}
}

func commandUpdate(text string, length int) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From:     &tgbotapi.User{ID: 42},
			Chat:     &tgbotapi.Chat{ID: 7},
			Text:     text,
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

func replyText(t *testing.T, messages []tgbotapi.Chattable) string {
	t.Helper()

	require.Len(t, messages, 1)
	return messages[0].(tgbotapi.MessageConfig).Text
}

func newTestHandler(t *testing.T, command *recordingCommand) (CommandHandler, *mock_repositories.MockUserRepository) {
	t.Helper()

	userRepository := mock_repositories.NewMockUserRepository(gomock.NewController(t))
	return NewReviewBotCommandHandler(userRepository, zap.NewNop().Sugar(), []commands.Command{command}), userRepository
}

func TestHandle_DispatchesCommandWithArguments(t *testing.T) {
	command := &recordingCommand{name: "summary"}
	handler, userRepository := newTestHandler(t, command)
	reviewer := &models.User{ID: 3, TelegramID: 42, Role: models.UserRoleReviewer, IsActive: true}
	userRepository.EXPECT().GetOneByTelegramID(gomock.Any(), int64(42)).Return(reviewer, nil)

	out := handler.Handle(context.Background(), commandUpdate("/summary 12", 8))

	assert.Equal(t, "handled summary", replyText(t, out))
	assert.Equal(t, "12", command.arguments)
	assert.Equal(t, reviewer, command.user)
}

func TestHandle_DispatchesCallbackQuery(t *testing.T) {
	command := &recordingCommand{name: "summary"}
	handler, userRepository := newTestHandler(t, command)
	userRepository.EXPECT().GetOneByTelegramID(gomock.Any(), int64(42)).Return(&models.User{ID: 3, Role: models.UserRoleReviewer, IsActive: true}, nil)

	out := handler.Handle(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			From:    &tgbotapi.User{ID: 42},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
			Data:    "summary:5",
		},
	})

	assert.Equal(t, "handled summary", replyText(t, out))
	assert.Equal(t, "5", command.arguments)
}

func TestHandle_UnknownTelegramAccount(t *testing.T) {
	handler, userRepository := newTestHandler(t, &recordingCommand{name: "summary"})
	userRepository.EXPECT().GetOneByTelegramID(gomock.Any(), int64(42)).Return(nil, repositories.ErrNotFound)

	out := handler.Handle(context.Background(), commandUpdate("/summary 12", 8))

	assert.Contains(t, replyText(t, out), "not linked")
}

func TestHandle_RejectsNonReviewers(t *testing.T) {
	handler, userRepository := newTestHandler(t, &recordingCommand{name: "summary"})
	userRepository.EXPECT().GetOneByTelegramID(gomock.Any(), int64(42)).Return(&models.User{ID: 3, Role: models.UserRoleApplicant, IsActive: true}, nil)

	out := handler.Handle(context.Background(), commandUpdate("/summary 12", 8))

	assert.Equal(t, "Only active reviewers can use this bot.", replyText(t, out))
}

func TestHandle_RepositoryFailure(t *testing.T) {
	handler, userRepository := newTestHandler(t, &recordingCommand{name: "summary"})
	userRepository.EXPECT().GetOneByTelegramID(gomock.Any(), int64(42)).Return(nil, errors.New("connection refused"))

	out := handler.Handle(context.Background(), commandUpdate("/summary 12", 8))

	assert.Equal(t, "Something went wrong, please try again.", replyText(t, out))
}

func TestHandle_UnknownCommand(t *testing.T) {
	handler, userRepository := newTestHandler(t, &recordingCommand{name: "summary"})
	userRepository.EXPECT().GetOneByTelegramID(gomock.Any(), int64(42)).Return(&models.User{ID: 3, Role: models.UserRoleReviewer, IsActive: true}, nil)

	out := handler.Handle(context.Background(), commandUpdate("/approve 12", 8))

	assert.Contains(t, replyText(t, out), "Unknown command")
}

func TestHandle_IgnoresEmptyUpdate(t *testing.T) {
	handler, _ := newTestHandler(t, &recordingCommand{name: "summary"})

	assert.Empty(t, handler.Handle(context.Background(), tgbotapi.Update{}))
}
