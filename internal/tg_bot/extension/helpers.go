package extension

import (
	"application_review_system/internal/services"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func DefaultErrorMessage(chatID int64) tgbotapi.Chattable {
	return ErrorMessage(chatID, "Something went wrong, please try again.")
}

func ErrorMessage(chatID int64, text string) tgbotapi.Chattable {
	return tgbotapi.NewMessage(chatID, text)
}

// WorkflowErrorMessage shows business failures to the reviewer and hides
// everything else behind the default message.
func WorkflowErrorMessage(chatID int64, err error) tgbotapi.Chattable {
	workflowErr, ok := services.AsWorkflowError(err)
	if !ok {
		return DefaultErrorMessage(chatID)
	}
	if len(workflowErr.Reasons) == 0 {
		return ErrorMessage(chatID, strings.ReplaceAll(string(workflowErr.Kind), "_", " "))
	}
	return ErrorMessage(chatID, strings.Join(workflowErr.Reasons, "\n"))
}
