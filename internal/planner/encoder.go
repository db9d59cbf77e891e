package planner

import (
	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/hwaccel"
)

// BackendSettings is one hardware backend's rate-control knobs: encoder
// preset, quality index (CQ/CRF-equivalent), and lookahead depth.
type BackendSettings struct {
	Preset    string
	Quality   int
	Lookahead int
}

// EncoderSettings collects the per-backend knob sets plus the audio bitrate
// policy that reacts to the ladder's top step.
type EncoderSettings struct {
	NVENC BackendSettings
	QSV   BackendSettings
	VAAPI BackendSettings
	None  BackendSettings

	AudioBitrateBase    int
	AudioBitrateBonus2K int
}

func settingsFor(backend domain.Accelerator, cfg EncoderSettings) BackendSettings {
	switch backend {
	case domain.AccelNVENC:
		return cfg.NVENC
	case domain.AccelQSV:
		return cfg.QSV
	case domain.AccelVAAPI:
		return cfg.VAAPI
	default:
		return cfg.None
	}
}

// BuildEncoderParams resolves one ladder step into the structured
// Media Tool arguments for the configured backend.
func BuildEncoderParams(backend domain.Accelerator, step domain.LadderStep, hdr bool, cfg EncoderSettings) domain.EncoderParams {
	s := settingsFor(backend, cfg)
	return hwaccel.BuildParams(backend, step.Width, step.Height, step.Bitrate, hdr, s.Preset, s.Lookahead, s.Quality)
}

// AudioBitrateFor returns the DASH audio bitrate for a concept, applying the
// 2K bonus when the video ladder's top step was admitted (i.e. the source
// qualified for the 2K-class rung).
func AudioBitrateFor(cfg EncoderSettings, ladderHasTopStep bool) int {
	if ladderHasTopStep {
		return cfg.AudioBitrateBase + cfg.AudioBitrateBonus2K
	}
	return cfg.AudioBitrateBase
}
