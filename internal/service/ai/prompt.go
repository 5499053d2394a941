package ai

import "fmt"

const summarizeSystemPrompt = `You summarize short personal videos from their transcripts. ` +
	`Reply with a single JSON object and nothing else, shaped as ` +
	`{"title": string, "description": string, "tags": [string], "quotes": [string]}. ` +
	`The title is at most 8 words. The description is one or two sentences. ` +
	`Provide up to 20 lowercase topic tags and pick 2 or 3 verbatim quotes from the transcript.`

func buildSummarizePrompt(transcript string) string {
	return fmt.Sprintf("Transcript:\n\n%s", transcript)
}

const reminderInstruction = `If the user asks to be reminded of something, append a final ` +
	`line of the form REMINDER: {"message": string, "time": "HH:mm"} and nothing else on ` +
	`that line. Never emit that line otherwise.`

func buildChatSystemPrompt(contextBlock string) string {
	if contextBlock == "" {
		return `You answer questions about the user's saved video transcripts. ` +
			`The user currently has no saved transcripts. Say so plainly, tell them ` +
			`answers will improve once they save some videos, and do not invent content. ` +
			reminderInstruction
	}

	return fmt.Sprintf(`You answer questions about the user's saved video transcripts. `+
		`Ground every answer in the transcripts below and say when they do not cover `+
		`the question. Do not invent content that is not in the transcripts. `+
		reminderInstruction+`

%s`, contextBlock)
}
