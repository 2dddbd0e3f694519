package dto

import "time"

type SendChatRequest struct {
	Message  string `json:"message" validate:"required,min=1,max=2000"`
	ThreadId string `json:"thread_id,omitempty" validate:"omitempty,uuid4"`
}

type ChatHistoryMessage struct {
	Id      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetChatHistoryResponse struct {
	ThreadId string               `json:"thread_id"`
	Messages []ChatHistoryMessage `json:"messages"`
}

// ReindexRequestMessage is the payload carried on the reindex topic.
type ReindexRequestMessage struct {
	RequestedAt time.Time `json:"requested_at"`
}

type ReindexResponse struct {
	Status string `json:"status"`
}

type StoreLocatorResponse struct {
	Result string `json:"result"`
}
