package domain

// LadderStep is one entry of an Encoding Plan: a target resolution with its
// bitrate and stable label, produced by the encoder planner from a source
// resolution and a configured scale-divisor ladder.
type LadderStep struct {
	Label   string
	Width   int
	Height  int
	Bitrate int
}

// VTTCue is one subtitle, chapter, or sprite-index cue: a start/end pair
// normalized to HH:MM:SS.mmm and a payload. For preview atlases the payload
// carries a `file#xywh=x,y,w,h` spatial fragment.
type VTTCue struct {
	Start   float64
	End     float64
	Payload string
}

// ChunkBoundary is one [Start, End) window of a long-form audio source
// picked for STT transcription, chosen at a silence midpoint when one was
// found nearby.
type ChunkBoundary struct {
	Start float64
	End   float64
}

// AudioTrack describes one output audio artifact destined for the DASH
// assembler: its file path plus the language/title metadata injected into
// the manifest.
type AudioTrack struct {
	Path     string
	Language string
	Title    string
}
