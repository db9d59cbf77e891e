package domain

// QualityStep is one configured rung of the resolution ladder: a label and
// the divisor applied to the source width to derive the target width.
type QualityStep struct {
	Label   string
	Divisor float64
}

// EncodingPlan is the full ordered ladder computed for one source video,
// plus the HDR tonemap decision that applies to every step.
type EncodingPlan struct {
	Steps []LadderStep
	HDR   bool
}
