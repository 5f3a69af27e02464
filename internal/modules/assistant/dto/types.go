package dto

type AskInput struct {
	Text string
}

type ReplyOutput struct {
	Text     string
	Cached   bool
	Fallback bool
}

type StatusOutput struct {
	Remaining int
	Limit     int
}
