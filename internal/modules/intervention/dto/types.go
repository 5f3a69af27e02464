package dto

type TaskOutput struct {
	Type         string
	Prompt       string
	EstimatedSec int
}

type StateOutput struct {
	State   string
	Type    string
	Episode uint64
	Message string
	Tone    string
	Planned bool
	Task    *TaskOutput
}

func (s StateOutput) Active() bool {
	return s.State != "" && s.State != "IDLE"
}
