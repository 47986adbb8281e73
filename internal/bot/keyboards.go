package bot

import "github.com/go-telegram/bot/models"

// Admin menu labels. These act as a de facto command set matched verbatim
// against incoming text, so they are plain constants and never localized.
const (
	LabelStartBattle   = "Start Battle"
	LabelStopBattle    = "Stop Battle"
	LabelSetTemplate   = "Set Template"
	LabelSubscriptions = "Obunalar"
	LabelStatistics    = "Statistika"
	LabelBack          = "Back"
	LabelAddChannel    = "Add Channel"
	LabelDeleteChannel = "Delete Channel"
)

func adminKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: LabelStartBattle}, {Text: LabelStopBattle}},
			{{Text: LabelSetTemplate}},
			{{Text: LabelSubscriptions}},
			{{Text: LabelStatistics}},
		},
		ResizeKeyboard: true,
	}
}

func subscriptionsKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: LabelAddChannel}, {Text: LabelDeleteChannel}},
			{{Text: LabelBack}},
		},
		ResizeKeyboard: true,
	}
}
