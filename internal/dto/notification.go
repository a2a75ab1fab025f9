package dto

// SendEmailRequest dispatches one transactional email. With UseAI set,
// Prompt is turned into the body by the text-generation provider and
// Content is ignored; otherwise Content is sent as-is.
type SendEmailRequest struct {
	To      string `json:"to"      binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Prompt  string `json:"prompt"`
	UseAI   bool   `json:"useAI"`
	Content string `json:"content"`
}

// SendEmailResponse reports the dispatch outcome.
type SendEmailResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Content   string `json:"content,omitempty"`
}
