package ffmpeg

import "fmt"

// SubtitleExtractArgs builds the single multi-map invocation that remuxes
// every listed subtitle stream index to its own WebVTT output file.
// outputs[i] corresponds to streamIndexes[i].
func SubtitleExtractArgs(inputPath string, streamIndexes []int, outputs []string) []string {
	args := []string{"-i", inputPath}

	for i, idx := range streamIndexes {
		args = append(args,
			"-map", fmt.Sprintf("0:%d", idx),
			"-c:s", "webvtt",
			outputs[i],
		)
	}

	return args
}

// PCM16MonoArgs extracts a 16kHz mono PCM16 WAV segment of the input,
// bounded to [startSecs, startSecs+durationSecs), for STT upload.
func PCM16MonoArgs(inputPath string, startSecs, durationSecs float64, outputPath string) []string {
	return []string{
		"-ss", fmt.Sprintf("%.3f", startSecs),
		"-i", inputPath,
		"-t", fmt.Sprintf("%.3f", durationSecs),
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outputPath,
	}
}

// SilenceDetectArgs builds a windowed silencedetect invocation: input-level
// seek (before -i) so the Probe Facade must offset every emitted timestamp
// by windowStart before use.
func SilenceDetectArgs(inputPath string, windowStart, windowEnd float64, noiseDB float64, minDurSecs float64) []string {
	args := []string{"-ss", fmt.Sprintf("%.3f", windowStart), "-i", inputPath}
	if windowEnd > windowStart {
		args = append(args, "-t", fmt.Sprintf("%.3f", windowEnd-windowStart))
	}
	args = append(args,
		"-af", fmt.Sprintf("silencedetect=noise=%gdB:d=%g", noiseDB, minDurSecs),
		"-f", "null", "-",
	)
	return args
}
