package replay

import "fmt"

type ReplayError struct {
	ActionIndex int    `json:"action_index"`
	Reason      string `json:"reason"`
	Message     string `json:"message"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(action=%d reason=%s): %s", e.ActionIndex, e.Reason, e.Message)
}
