package scanning

import "strings"

// noTextMarker is what LLM providers are told to answer for blank images.
const noTextMarker = "NO_TEXT"

// transcriptionPrompt is the shared prompt used by all LLM providers
const transcriptionPrompt = `You are reading a photographed purchase receipt. Transcribe every line of printed text exactly as it appears, top to bottom, one printed line per output line.

Rules:
- Keep merchant names, item names, prices, quantities, dates and totals verbatim, including currency symbols.
- Keep each price on the same line as the text it belongs to.
- Do not summarize, translate, correct spelling, or add commentary.
- Do not use markdown code blocks.
- If the image contains no readable text, reply with exactly ` + noTextMarker

// cleanTranscript strips the wrapping LLMs sometimes add around a transcript
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	if text == noTextMarker {
		return ""
	}
	return text
}
