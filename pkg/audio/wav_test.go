package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV assembles a minimal RIFF/WAVE file with the given format and
// raw sample bytes, optionally with an extra chunk before the data chunk.
func buildWAV(t *testing.T, sampleRate int, channels int, samples []byte, extraChunk bool) []byte {
	t.Helper()
	var buf bytes.Buffer

	write := func(v any) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}

	buf.WriteString("RIFF")
	write(uint32(0)) // file size, unchecked by the parser
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1)) // PCM
	write(uint16(channels))
	write(uint32(sampleRate))
	write(uint32(sampleRate * channels * 2)) // byte rate
	write(uint16(channels * 2))              // block align
	write(uint16(16))                        // bits per sample

	if extraChunk {
		buf.WriteString("LIST")
		write(uint32(4))
		buf.WriteString("INFO")
	}

	buf.WriteString("data")
	write(uint32(len(samples)))
	buf.Write(samples)

	return buf.Bytes()
}

func TestParseWAV(t *testing.T) {
	samples := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	tests := []struct {
		name       string
		sampleRate int
		channels   int
		extraChunk bool
	}{
		{name: "mono 44100", sampleRate: 44100, channels: 1},
		{name: "stereo 48000", sampleRate: 48000, channels: 2},
		{name: "extra chunk before data", sampleRate: 22050, channels: 1, extraChunk: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildWAV(t, tt.sampleRate, tt.channels, samples, tt.extraChunk)

			format, audioData, err := parseWAV(data)
			require.NoError(t, err)
			assert.Equal(t, tt.sampleRate, format.SampleRate)
			assert.Equal(t, tt.channels, format.Channels)
			assert.Equal(t, 16, format.BitDepth)
			assert.Equal(t, samples, audioData)
		})
	}
}

func TestParseWAVRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not riff", data: []byte("this is definitely not audio data")},
		{name: "riff but not wave", data: []byte("RIFF\x00\x00\x00\x00AVI LIST")},
		{name: "truncated header", data: []byte("RIFF\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseWAV(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestParseWAVMissingData(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	buf.WriteString("WAVE")

	_, _, err := parseWAV(buf.Bytes())
	assert.Error(t, err)
}
