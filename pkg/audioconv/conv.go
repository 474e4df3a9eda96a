// Package audioconv decodes synthesized speech assets (wav/mp3/ogg) into the
// 48 kHz stereo PCM the voice connection expects, and packs PCM into opus
// frames.
package audioconv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
	"layeh.com/gopus"
)

const (
	// PlaybackRate and Channels match what Discord voice expects.
	PlaybackRate = 48000
	Channels     = 2
	// FrameSize is samples per channel in one 20ms opus frame.
	FrameSize    = 960
	maxOpusBytes = FrameSize * Channels * 2
)

// DecodeFile reads an audio file and returns interleaved stereo PCM at the
// playback rate. The format is picked by extension with a magic-byte sniff
// as fallback.
func DecodeFile(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var mono []float32
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		mono, err = decodeWAV(f)
	case ".mp3":
		mono, err = decodeMP3(f)
	case ".ogg", ".oga", ".opus":
		mono, err = decodeOgg(f)
	default:
		br := bufio.NewReader(f)
		magic, _ := br.Peek(4)
		if _, serr := f.Seek(0, io.SeekStart); serr != nil {
			return nil, serr
		}
		switch string(magic) {
		case "RIFF":
			mono, err = decodeWAV(f)
		case "OggS":
			mono, err = decodeOgg(f)
		default:
			mono, err = decodeMP3(f)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(mono) == 0 {
		return nil, errors.New("empty audio stream")
	}
	return monoToStereoInt16(mono), nil
}

// decodeWAV returns mono float32 at the playback rate.
func decodeWAV(r io.ReadSeeker) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return nil, errors.New("empty wav")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	x := intSliceToFloat32(pb.Data, bitDepth)

	ch, sr := 1, 44100
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			ch = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			sr = pb.Format.SampleRate
		}
	}
	if ch > 1 {
		x = downmixInterleaved(x, ch)
	}
	return resampleLinear(x, sr, PlaybackRate), nil
}

func decodeMP3(r io.Reader) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, err
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return nil, err
	}
	x := int16SliceToFloat32(ints)
	x = downmixInterleaved(x, 2) // decoder output is stereo

	sr := dec.SampleRate()
	if sr <= 0 {
		sr = 44100
	}
	return resampleLinear(x, sr, PlaybackRate), nil
}

// decodeOgg tries opus first (what the speech endpoint emits) and falls back
// to vorbis.
func decodeOgg(r io.ReadSeeker) ([]float32, error) {
	if mono, err := decodeOggOpus(r); err == nil {
		return mono, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	mono, err := decodeOggVorbis(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ogg as opus or vorbis: %w", err)
	}
	return mono, nil
}

func decodeOggOpus(r io.ReadSeeker) ([]float32, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var pcm []float32
	buf := make([]int16, PlaybackRate*ch/2) // ~0.5s chunks
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			pcm = append(pcm, int16SliceToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(pcm) == 0 {
		return nil, errors.New("empty opus stream")
	}
	if ch > 1 {
		pcm = downmixInterleaved(pcm, ch)
	}
	// opus is always 48 kHz on the wire
	return pcm, nil
}

func decodeOggVorbis(r io.Reader) ([]float32, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, errors.New("invalid ogg/vorbis stream")
	}
	x := pcm
	if format.Channels > 1 {
		x = downmixInterleaved(pcm, format.Channels)
	}
	return resampleLinear(x, format.SampleRate, PlaybackRate), nil
}

// OpusFrames encodes interleaved stereo PCM into 20ms opus packets. The last
// frame is zero-padded.
func OpusFrames(pcm []int16) ([][]byte, error) {
	enc, err := gopus.NewEncoder(PlaybackRate, Channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("opus encoder: %w", err)
	}

	var frames [][]byte
	for _, frame := range chunkFrames(pcm, FrameSize*Channels) {
		data, err := enc.Encode(frame, FrameSize, maxOpusBytes)
		if err != nil {
			return nil, fmt.Errorf("opus encode: %w", err)
		}
		frames = append(frames, data)
	}
	return frames, nil
}

// chunkFrames slices pcm into fixed-size frames, zero-padding the tail.
func chunkFrames(pcm []int16, size int) [][]int16 {
	var out [][]int16
	for start := 0; start < len(pcm); start += size {
		end := start + size
		if end <= len(pcm) {
			out = append(out, pcm[start:end])
			continue
		}
		tail := make([]int16, size)
		copy(tail, pcm[start:])
		out = append(out, tail)
	}
	return out
}

func monoToStereoInt16(mono []float32) []int16 {
	out := make([]int16, 0, len(mono)*2)
	for _, v := range mono {
		s := int16(clamp(float64(v), -1.0, 1.0) * 32767)
		out = append(out, s, s)
	}
	return out
}

func intSliceToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1.0, 1.0))
	}
	return out
}

func int16SliceToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	const scale = 1.0 / 32768.0
	for i, v := range data {
		out[i] = float32(float64(v) * scale)
	}
	return out
}

func downmixInterleaved(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	nFrames := len(in) / channels
	out := make([]float32, nFrames)
	for i := 0; i < nFrames; i++ {
		sum := 0.0
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += float64(in[base+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func resampleLinear(in []float32, inSR, outSR int) []float32 {
	if inSR == outSR || len(in) == 0 {
		return in
	}
	ratio := float64(outSR) / float64(inSR)
	outN := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, outN)
	for i := 0; i < outN; i++ {
		src := float64(i) / ratio
		i0 := int(math.Floor(src))
		i1 := i0 + 1
		if i0 >= len(in) {
			out[i] = in[len(in)-1]
			continue
		}
		if i1 >= len(in) {
			out[i] = in[i0]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i1]*a
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
