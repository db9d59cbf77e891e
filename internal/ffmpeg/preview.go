package ffmpeg

import "fmt"

// ThumbnailArgs grabs a single frame at offsetSecs and scales it to fit
// within targetWidth x targetHeight, preserving aspect ratio; a frame
// smaller than the box is enlarged to fit it.
func ThumbnailArgs(inputPath string, offsetSecs float64, targetWidth, targetHeight int, outputPath string) []string {
	return []string{
		"-ss", fmt.Sprintf("%.3f", offsetSecs),
		"-i", inputPath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", targetWidth, targetHeight),
		outputPath,
	}
}

// SpriteTileArgs produces one sprite-atlas file: seek to groupStart, sample
// one frame every interval seconds, scale each to thumbW x thumbH, and tile
// them cols x rows into a single image.
func SpriteTileArgs(inputPath string, groupStart, interval float64, thumbW, thumbH, cols, rows, quality int, outputPath string) []string {
	return []string{
		"-ss", fmt.Sprintf("%.3f", groupStart),
		"-i", inputPath,
		"-vf", fmt.Sprintf("fps=1/%g,scale=%d:%d,tile=%dx%d", interval, thumbW, thumbH, cols, rows),
		"-frames:v", "1",
		"-q:v", fmt.Sprintf("%d", quality),
		outputPath,
	}
}
