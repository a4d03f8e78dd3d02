package models

// SendQuery is the query string of GET /send.
type SendQuery struct {
	Number  string `query:"number"`
	Message string `query:"message"`
}

type SendMessagesRequest struct {
	Names   []string `json:"names"`
	Message string   `json:"message"`
}

type SendPollRequest struct {
	Names                []string `json:"names"`
	PollQuestion         string   `json:"pollQuestion"`
	PollOptions          []string `json:"pollOptions"`
	AllowMultipleAnswers bool     `json:"allowMultipleAnswers,omitempty"`
	MessageSecret        []int    `json:"messageSecret,omitempty"`
}

type SendMessageAndPollRequest struct {
	Names                []string `json:"names"`
	Message              string   `json:"message"`
	PollQuestion         string   `json:"pollQuestion"`
	PollOptions          []string `json:"pollOptions"`
	AllowMultipleAnswers bool     `json:"allowMultipleAnswers,omitempty"`
	MessageSecret        []int    `json:"messageSecret,omitempty"`
}

func (r SendMessageAndPollRequest) Poll() Poll {
	return Poll{
		Question:      r.PollQuestion,
		Options:       r.PollOptions,
		AllowMultiple: r.AllowMultipleAnswers,
		MessageSecret: r.MessageSecret,
	}
}

func (r SendPollRequest) Poll() Poll {
	return Poll{
		Question:      r.PollQuestion,
		Options:       r.PollOptions,
		AllowMultiple: r.AllowMultipleAnswers,
		MessageSecret: r.MessageSecret,
	}
}

type SendGroupMessageRequest struct {
	GroupID string `json:"groupId"`
	Message string `json:"message"`
}

// Poll is what the session needs to build a poll message.
type Poll struct {
	Question      string
	Options       []string
	AllowMultiple bool
	MessageSecret []int
}
