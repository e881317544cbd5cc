package prompt

// SystemInstruction is attached to every structured analysis call.
func SystemInstruction() string {
	return `You are Rook Lite, a world-class Chief Marketing Officer (CMO).
Your goal is to provide deep, strategic, conversion-focused analysis.
Avoid generic advice. Be specific, critical, and authoritative.
Always use internal reasoning before generating the final JSON output.`
}

// TranscribeInstruction accompanies audio sent for transcription.
func TranscribeInstruction() string {
	return "Transcribe this audio exactly as spoken. Return only the transcript text, with no commentary."
}

// BriefPrompt wraps text that should be read aloud as an audio brief.
func BriefPrompt(text string) string {
	return "Read this marketing brief aloud in a confident, concise tone: " + text
}
