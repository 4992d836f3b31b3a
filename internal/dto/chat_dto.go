package dto

type StreamChatRequest struct {
	Message          string `json:"message" validate:"required"`
	SessionID        string `json:"session_id"`
	SystemPromptText string `json:"system_prompt_text,omitempty"`
	DocPath          string `json:"doc_path,omitempty"`
	Pages            []int  `json:"pages,omitempty"` // Page filter applied with doc_path
}

type SessionTurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Seq     int    `json:"seq"`
}

type SessionHistoryResponse struct {
	SessionID string           `json:"session_id"`
	Turns     []SessionTurnDTO `json:"turns"`
}

type DeleteChatSessionResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
