package decode

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// buildWAV constructs a minimal canonical PCM WAV file in memory.
func buildWAV(sampleRate int, channels int, bitsPerSample uint16, audioFormat uint16, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, audioFormat)
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := uint32(sampleRate * channels * int(bitsPerSample) / 8)
	binary.Write(&buf, binary.LittleEndian, byteRate)
	blockAlign := uint16(channels * int(bitsPerSample) / 8)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, bitsPerSample)

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

func TestDecodeWAV16Bit(t *testing.T) {
	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, int16(16384))  // 0.5
	binary.Write(&data, binary.LittleEndian, int16(-16384)) // -0.5
	raw := buildWAV(44100, 1, 16, wavFormatPCM, data.Bytes())

	decoded, err := decodeWAV(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.SampleRate != 44100 || decoded.Channels != 1 {
		t.Fatalf("unexpected format: %+v", decoded)
	}
	if len(decoded.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(decoded.Samples))
	}
	if math.Abs(float64(decoded.Samples[0]-0.5)) > 1e-3 {
		t.Errorf("sample 0: expected ~0.5, got %v", decoded.Samples[0])
	}
	if math.Abs(float64(decoded.Samples[1]+0.5)) > 1e-3 {
		t.Errorf("sample 1: expected ~-0.5, got %v", decoded.Samples[1])
	}
}

func TestDecodeWAVFloat32(t *testing.T) {
	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, float32(0.25))
	binary.Write(&data, binary.LittleEndian, float32(-0.75))
	raw := buildWAV(48000, 2, 32, wavFormatIEEEFloat, data.Bytes())

	decoded, err := decodeWAV(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Channels != 2 {
		t.Fatalf("expected 2 channels, got %d", decoded.Channels)
	}
	if decoded.Samples[0] != 0.25 || decoded.Samples[1] != -0.75 {
		t.Fatalf("unexpected samples: %+v", decoded.Samples)
	}
}

func TestDecodeWAVMissingDataChunkErrors(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	buf.WriteString("WAVE")

	if _, err := decodeWAV(&buf); err == nil {
		t.Fatal("expected error for missing data chunk")
	}
}

func TestDecodeWAVRejectsNonRIFF(t *testing.T) {
	if _, err := decodeWAV(bytes.NewReader(make([]byte, 12))); err == nil {
		t.Fatal("expected error for non-RIFF input")
	}
}
