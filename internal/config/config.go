// Package config loads the worker's JSON configuration file. Every field
// has a documented default so a near-empty config.json is valid input; the
// defaults-struct-then-unmarshal-over-it shape matches the source system's
// serde(default = "...") fields.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	DBConnection string               `json:"dbconnection"`
	UploadDir    string               `json:"upload_dir"`
	PollInterval int                  `json:"poll_interval_ms"`
	ParallelJobs int                  `json:"parallel_jobs"`
	FFmpegPath   string               `json:"ffmpeg_path"`
	FFprobePath  string               `json:"ffprobe_path"`
	Video        VideoConfig          `json:"video"`
	Whisper      WhisperConfig        `json:"whisper"`
	Audio        AudioTranscodeConfig `json:"audio"`
	Picture      PictureConfig        `json:"picture"`
	LLM          LLMConfig            `json:"llm"`
	PDF          PDFConfig            `json:"pdf"`
	Translation  TranslationConfig    `json:"translation"`
	Logging      LoggingConfig        `json:"logging"`
}

// LoggingConfig governs the structured logger's level, encoding, and
// output destinations.
type LoggingConfig struct {
	Level       string   `json:"level"`
	Encoding    string   `json:"encoding"` // "console" or "json"
	OutputPaths []string `json:"output_paths"`
}

type QualityStep struct {
	Label               string  `json:"label"`
	ScaleDivisor        float64 `json:"scale_divisor"`
	AudioBitrateDivisor float64 `json:"audio_bitrate_divisor"`
}

type NvencSettings struct {
	Preset    string `json:"preset"`
	Tier      string `json:"tier"`
	RC        string `json:"rc"`
	CQ        int    `json:"cq"`
	Lookahead int    `json:"lookahead"`
}

type QsvSettings struct {
	Preset         string `json:"preset"`
	GlobalQuality  int    `json:"global_quality"`
	LookAheadDepth int    `json:"look_ahead_depth"`
}

type VaapiSettings struct {
	Quality          int `json:"quality"`
	CompressionRatio int `json:"compression_ratio"`
}

type DashConfig struct {
	AudioCodec        string `json:"audio_codec"`
	AudioVBR          string `json:"audio_vbr"`
	AudioChannels     int    `json:"audio_channels"`
	SegmentDurationMS int    `json:"segment_duration"`
}

type ThumbnailConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ShowcaseConfig struct {
	Width     int `json:"width"`
	FPS       int `json:"fps"`
	MaxFrames int `json:"max_frames"`
	Quality   int `json:"quality"`
	CPUUsed   int `json:"cpu_used"`
}

type PreviewSpriteConfig struct {
	IntervalSeconds   float64 `json:"interval_seconds"`
	ThumbWidth        int     `json:"thumb_width"`
	ThumbHeight       int     `json:"thumb_height"`
	MaxSpritesPerFile int     `json:"max_sprites_per_file"`
	SpritesAcross     int     `json:"sprites_across"`
	Quality           int     `json:"quality"`
	ParallelLimit     int     `json:"parallel_limit"`
}

// BitrateBound is the [Min, Max] clamp applied to the bitrate estimated for
// a ladder step, keyed by the step's target height in VideoConfig.
type BitrateBound struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type VideoConfig struct {
	Encoder             string               `json:"encoder"`
	MaxResolutionSteps  int                  `json:"max_resolution_steps"`
	MinDimension        int                  `json:"min_dimension"`
	FPSCap              float64              `json:"fps_cap"`
	AudioBitrateBase    int                  `json:"audio_bitrate_base"`
	Threshold2KPixels   int                  `json:"threshold_2k_pixels"`
	AudioBitrate2KBonus int                  `json:"audio_bitrate_2k_bonus"`
	QualitySteps        []QualityStep        `json:"quality_steps"`
	BitrateBounds       map[int]BitrateBound `json:"bitrate_bounds"`
	NVENC               NvencSettings        `json:"nvenc"`
	QSV                 QsvSettings          `json:"qsv"`
	VAAPI               VaapiSettings        `json:"vaapi"`
	Dash                DashConfig           `json:"dash"`
	Thumbnail           ThumbnailConfig      `json:"thumbnail"`
	Showcase            ShowcaseConfig       `json:"showcase"`
	PreviewSprites      PreviewSpriteConfig  `json:"preview_sprites"`
}

type WhisperConfig struct {
	URL                   string  `json:"url"`
	Model                 string  `json:"model"`
	ResponseFormat        string  `json:"response_format"`
	OutputLabel           string  `json:"output_label"`
	Temperature           float64 `json:"temperature"`
	RequestTimeoutMS      int     `json:"request_timeout_ms"`
	TargetChunkSecs       float64 `json:"target_chunk_secs"`
	MaxChunkSecs          float64 `json:"max_chunk_secs"`
	SilenceNoiseDB        float64 `json:"silence_noise_db"`
	SilenceMinDurSecs     float64 `json:"silence_min_dur_secs"`
	SilenceDetectParallel int     `json:"silence_detect_parallel"`
}

// TranslationConfig governs the optional subtitle machine-translation pass.
type TranslationConfig struct {
	Enabled          bool     `json:"enabled"`
	TargetLanguages  []string `json:"target_languages"`
	SourceLanguage   string   `json:"source_language"`
	RequestTimeoutMS int      `json:"request_timeout_ms"`
}

type AudioTranscodeConfig struct {
	Codec           string   `json:"codec"`
	LosslessBitrate string   `json:"lossless_bitrate"`
	LossyBitrate    string   `json:"lossy_bitrate"`
	VBR             string   `json:"vbr"`
	Application     string   `json:"application"`
	OutputFormat    string   `json:"output_format"`
	LosslessCodecs  []string `json:"lossless_codecs"`
}

type PictureConfig struct {
	CRF               int `json:"crf"`
	ThumbnailCRF      int `json:"thumbnail_crf"`
	JPGQuality        int `json:"jpg_quality"`
	ThumbnailWidth    int `json:"thumbnail_width"`
	ThumbnailHeight   int `json:"thumbnail_height"`
	CoverCRF          int `json:"cover_crf"`
	CoverThumbnailCRF int `json:"cover_thumbnail_crf"`
}

type LLMConfig struct {
	URL         string  `json:"url"`
	NPredict    int     `json:"n_predict"`
	Temperature float64 `json:"temperature"`
	CachePrompt bool    `json:"cache_prompt"`
}

type PDFConfig struct {
	RenderWidth  int `json:"render_width"`
	ThumbnailCRF int `json:"thumbnail_crf"`
	JPGQuality   int `json:"jpg_quality"`
}

// Default returns the fully-populated default configuration; Load
// unmarshals the file over this baseline so any field the file omits
// keeps its default value.
func Default() Config {
	return Config{
		UploadDir:    "upload",
		PollInterval: 100,
		ParallelJobs: 4,
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		Video: VideoConfig{
			Encoder:             "nvenc",
			MaxResolutionSteps:  4,
			MinDimension:        240,
			FPSCap:              30,
			AudioBitrateBase:    128_000,
			Threshold2KPixels:   3840 * 2160,
			AudioBitrate2KBonus: 64_000,
			QualitySteps: []QualityStep{
				{Label: "2160p", ScaleDivisor: 1, AudioBitrateDivisor: 1},
				{Label: "1080p", ScaleDivisor: 2, AudioBitrateDivisor: 1},
				{Label: "720p", ScaleDivisor: 3, AudioBitrateDivisor: 1.5},
				{Label: "480p", ScaleDivisor: 4, AudioBitrateDivisor: 2},
			},
			BitrateBounds: map[int]BitrateBound{
				2160: {Min: 8_000_000, Max: 20_000_000},
				1080: {Min: 2_000_000, Max: 8_000_000},
				720:  {Min: 1_000_000, Max: 4_000_000},
				480:  {Min: 500_000, Max: 2_000_000},
				360:  {Min: 300_000, Max: 1_000_000},
			},
			NVENC: NvencSettings{Preset: "p5", Tier: "high", RC: "vbr", CQ: 23, Lookahead: 20},
			QSV:   QsvSettings{Preset: "medium", GlobalQuality: 23, LookAheadDepth: 20},
			VAAPI: VaapiSettings{Quality: 23, CompressionRatio: 20},
			Dash: DashConfig{
				AudioCodec:        "libopus",
				AudioVBR:          "constrained",
				AudioChannels:     2,
				SegmentDurationMS: 10500,
			},
			Thumbnail:      ThumbnailConfig{Width: 1920, Height: 1080},
			Showcase:       ShowcaseConfig{Width: 480, FPS: 2, MaxFrames: 60, Quality: 40, CPUUsed: 2},
			PreviewSprites: PreviewSpriteConfig{IntervalSeconds: 5.0, ThumbWidth: 640, ThumbHeight: 360, MaxSpritesPerFile: 100, SpritesAcross: 10, Quality: 36, ParallelLimit: 4},
		},
		Whisper: WhisperConfig{
			URL:                   "http://whisper:8080/inference",
			Model:                 "whisper-1",
			ResponseFormat:        "vtt",
			OutputLabel:           "AI_transcription",
			Temperature:           0.0,
			RequestTimeoutMS:      120_000,
			TargetChunkSecs:       600,
			MaxChunkSecs:          900,
			SilenceNoiseDB:        -30,
			SilenceMinDurSecs:     0.5,
			SilenceDetectParallel: 4,
		},
		Translation: TranslationConfig{
			Enabled:          false,
			TargetLanguages:  nil,
			SourceLanguage:   "en",
			RequestTimeoutMS: 30_000,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Encoding:    "json",
			OutputPaths: []string{"stdout"},
		},
		Audio: AudioTranscodeConfig{
			Codec:           "libopus",
			LosslessBitrate: "300k",
			LossyBitrate:    "256k",
			VBR:             "on",
			Application:     "audio",
			OutputFormat:    "ogg",
			LosslessCodecs:  []string{"flac", "wav", "pcm_s16le"},
		},
		Picture: PictureConfig{
			CRF:               26,
			ThumbnailCRF:      28,
			JPGQuality:        25,
			ThumbnailWidth:    1280,
			ThumbnailHeight:   720,
			CoverCRF:          26,
			CoverThumbnailCRF: 30,
		},
		LLM: LLMConfig{
			URL:         "http://llm:8081/completion",
			NPredict:    512,
			Temperature: 0.2,
			CachePrompt: true,
		},
		PDF: PDFConfig{
			RenderWidth:  1280,
			ThumbnailCRF: 28,
			JPGQuality:   25,
		},
	}
}

// Load reads path as JSON over Default(), so a config file that supplies
// only dbconnection and video.quality_steps still yields a complete,
// usable configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
