package model

// DialogStep defines the possible steps of a multi-message exchange.
type DialogStep string

const (
	StepAwaitingAPIKey      DialogStep = "awaiting_api_key"
	StepAwaitingImagePrompt DialogStep = "awaiting_image_prompt"
)

// DialogState holds a user's progress through a dialog. It is transient:
// the state lives in process memory only and an in-flight dialog is simply
// abandoned on restart.
type DialogState struct {
	Step DialogStep        `json:"step"`
	Data map[string]string `json:"data"`
}
