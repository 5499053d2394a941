package ai

import (
	"encoding/json"
	"strings"
)

// ReminderProposal is a reminder the chat model suggests on the user's
// behalf. Time is "HH:mm"; downstream scheduling applies its own default
// when the value is malformed.
type ReminderProposal struct {
	Message string `json:"message"`
	Time    string `json:"time"`
}

const reminderMarker = "REMINDER:"

// ExtractReminderProposal scans a chat reply for a reminder marker line and
// returns the proposal plus the reply with the marker removed. The marker
// payload is the JSON object the prompt asks for; a bare "message at HH:mm"
// form is accepted as a fallback. Replies without a usable marker return a
// nil proposal and the reply unchanged.
func ExtractReminderProposal(reply string) (*ReminderProposal, string) {
	lines := strings.Split(reply, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !hasPrefixFold(trimmed, reminderMarker) {
			continue
		}

		payload := strings.TrimSpace(trimmed[len(reminderMarker):])
		proposal := parseProposal(payload)
		if proposal == nil {
			continue
		}

		rest := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		return proposal, strings.TrimSpace(strings.Join(rest, "\n"))
	}

	return nil, reply
}

func parseProposal(payload string) *ReminderProposal {
	if strings.HasPrefix(payload, "{") {
		var proposal ReminderProposal
		if err := json.Unmarshal([]byte(payload), &proposal); err == nil &&
			strings.TrimSpace(proposal.Message) != "" {
			proposal.Message = strings.TrimSpace(proposal.Message)
			proposal.Time = strings.TrimSpace(proposal.Time)
			return &proposal
		}
		return nil
	}

	// Fallback: "<message> at <HH:mm>".
	idx := strings.LastIndex(payload, " at ")
	if idx <= 0 {
		return nil
	}

	message := strings.TrimSpace(payload[:idx])
	timeOfDay := strings.TrimSpace(payload[idx+len(" at "):])
	if message == "" || timeOfDay == "" {
		return nil
	}

	return &ReminderProposal{Message: message, Time: timeOfDay}
}
