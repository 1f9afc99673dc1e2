package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/effects/freeverb"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if err := validateFormat(format.NumChannels, bitDepth, decoder.WavAudioFormat); err != nil {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported WAV file %s: %w", path, err)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// validateFormat accepts integer PCM, mono or stereo, at 16, 24 or 32 bits.
func validateFormat(channels, bitDepth int, audioFormat uint16) error {
	if audioFormat != pcmAudioFormat {
		return fmt.Errorf("audio format %d is not integer PCM", audioFormat)
	}

	if channels != monoChannels && channels != stereoChannels {
		return fmt.Errorf("%d channels, only mono and stereo are supported", channels)
	}

	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return nil
	default:
		return fmt.Errorf("bit depth %d is not supported", bitDepth)
	}
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, pcmAudioFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// reverbBuffers holds the preallocated conversion buffers for one block.
type reverbBuffers struct {
	intBuffer    *audio.IntBuffer
	floatBuf     []float32
	outputIntBuf []int
	maxVal       float64
	invMaxVal    float64
	peak         float64 // largest absolute float sample seen by toInt
}

func newReverbBuffers(channels, bitDepth, blockFrames int, format *audio.Format) *reverbBuffers {
	samples := blockFrames * channels
	maxVal := getMaxValue(bitDepth)

	return &reverbBuffers{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, samples),
			Format: format,
		},
		floatBuf:     core.EnsureLen[float32](nil, samples),
		outputIntBuf: make([]int, samples),
		maxVal:       maxVal,
		invMaxVal:    1.0 / maxVal,
	}
}

// toFloat converts PCM samples to [-1,1] floats in the shared float buffer.
func (b *reverbBuffers) toFloat(samples []int) []float32 {
	out := b.floatBuf[:len(samples)]
	for i, v := range samples {
		out[i] = float32(float64(v) * b.invMaxVal)
	}
	return out
}

// silence returns n zeroed samples from the shared float buffer.
func (b *reverbBuffers) silence(n int) []float32 {
	out := b.floatBuf[:n]
	core.Zero(out)
	return out
}

// toInt quantizes block to PCM, clipping at full scale, and reports how many
// samples were clipped.
func (b *reverbBuffers) toInt(block []float32) ([]int, int64) {
	out := b.outputIntBuf[:len(block)]

	var clipped int64
	for i, x := range block {
		v := float64(x)
		b.peak = max(b.peak, math.Abs(v))
		if v > 1 || v < -1 {
			clipped++
			v = core.Clamp(v, -1, 1)
		}
		out[i] = int(math.Round(v * b.maxVal))
	}

	return out, clipped
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// reverbProcessor drives a Reverb over interleaved blocks and engages freeze
// mode at a fixed frame position.
type reverbProcessor struct {
	reverb   *freeverb.Reverb
	channels int
	split    [][]float32
	freezeAt int64 // frame index; negative disables
	position int64
	verbose  bool
}

func newReverbProcessor(channels int, cfg renderConfig, proc core.ProcessorConfig) (*reverbProcessor, error) {
	r, err := freeverb.New(
		freeverb.WithSampleRate(proc.SampleRate),
		freeverb.WithParameters(cfg.params),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reverb: %w", err)
	}

	freezeAt := int64(-1)
	if cfg.freezeSeconds >= 0 {
		freezeAt = int64(cfg.freezeSeconds * proc.SampleRate)
	}

	p := &reverbProcessor{
		reverb:   r,
		channels: channels,
		freezeAt: freezeAt,
		verbose:  cfg.verbose,
	}

	if channels == stereoChannels {
		p.split = [][]float32{
			make([]float32, proc.BlockSize),
			make([]float32, proc.BlockSize),
		}
	}

	return p, nil
}

// process applies the reverb in place to interleaved frames. A block that
// straddles the freeze position is split there.
func (p *reverbProcessor) process(interleaved []float32) {
	frames := len(interleaved) / p.channels

	for frames > 0 {
		n := frames
		if p.freezeAt >= 0 && !p.reverb.Parameters().Frozen() {
			if p.position >= p.freezeAt {
				p.engageFreeze()
			} else if until := p.freezeAt - p.position; int64(n) > until {
				n = int(until)
			}
		}

		p.processChunk(interleaved[:n*p.channels])

		interleaved = interleaved[n*p.channels:]
		frames -= n
		p.position += int64(n)
	}
}

func (p *reverbProcessor) processChunk(chunk []float32) {
	if p.channels == monoChannels {
		p.reverb.ProcessMono(chunk)
		return
	}

	frames := len(chunk) / stereoChannels
	for ch := range p.split {
		p.split[ch] = core.EnsureLen(p.split[ch], frames)
	}

	core.Deinterleave(p.split, chunk)
	p.reverb.ProcessStereo(p.split[0], p.split[1])
	core.Interleave(chunk, p.split)
}

func (p *reverbProcessor) engageFreeze() {
	params := p.reverb.Parameters()
	params.FreezeMode = 1
	p.reverb.SetParameters(params)

	if p.verbose {
		log.Printf("Freeze engaged at frame %d", p.position)
	}
}

// reverbWAV reverberates inputPath into outputPath at the input's format.
func reverbWAV(inputPath, outputPath string, cfg renderConfig) (stats *renderStats, err error) {
	input, err := openWAVInput(inputPath, cfg.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	proc := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(input.rate)),
		core.WithBlockSize(cfg.blockSize),
	)

	processor, err := newReverbProcessor(input.channels, cfg, proc)
	if err != nil {
		return nil, err
	}

	output, err := createWAVOutput(outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (the encoder patches the header)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	buffers := newReverbBuffers(input.channels, input.bitDepth, proc.BlockSize, input.format)

	stats = &renderStats{
		sampleRate: input.rate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}

	write := func(block []float32) error {
		processor.process(block)

		out, clipped := buffers.toInt(block)
		stats.clippedSamples += clipped

		return output.WriteSamples(out)
	}

	for {
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}

		frames := n / input.channels
		if frames == 0 {
			break
		}

		block := buffers.toFloat(buffers.intBuffer.Data[:frames*input.channels])
		if err := write(block); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}

		stats.inputFrames += int64(frames)
	}

	stats.tailFrames = int64(cfg.tailSeconds * float64(input.rate))
	for remaining := stats.tailFrames; remaining > 0; {
		frames := int(min(remaining, int64(proc.BlockSize)))
		if err := write(buffers.silence(frames * input.channels)); err != nil {
			return nil, fmt.Errorf("failed to write reverb tail: %w", err)
		}
		remaining -= int64(frames)
	}

	stats.outputFrames = stats.inputFrames + stats.tailFrames
	stats.peakDBFS = core.LinearToDB(buffers.peak)

	if cfg.verbose && input.totalFrames > 0 && input.totalFrames != stats.inputFrames {
		log.Printf("Header announced %d frames, read %d", input.totalFrames, stats.inputFrames)
	}

	return stats, nil
}
