package gemini

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

// pcmRate reports the sample rate of a raw 16-bit PCM mime type such as
// "audio/L16;codec=pcm;rate=24000", which is what the speech models return.
func pcmRate(mimeType string) (int, bool) {
	parts := strings.Split(strings.ToLower(mimeType), ";")
	if len(parts) == 0 || (strings.TrimSpace(parts[0]) != "audio/l16" && strings.TrimSpace(parts[0]) != "audio/pcm") {
		return 0, false
	}
	rate := 24000
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if ok && k == "rate" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				rate = n
			}
		}
	}
	return rate, true
}

// wrapWAV prefixes mono 16-bit little-endian PCM with a RIFF header so
// browsers can play the data URI directly.
func wrapWAV(pcm []byte, rate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	w(uint32(36 + len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	w(uint32(16))
	w(uint16(1))
	w(uint16(channels))
	w(uint32(rate))
	w(uint32(rate * channels * bitsPerSample / 8))
	w(uint16(channels * bitsPerSample / 8))
	w(uint16(bitsPerSample))
	buf.WriteString("data")
	w(uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
