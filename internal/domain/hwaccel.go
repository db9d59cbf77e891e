package domain

// Accelerator is the hardware encode backend selected for AV1 output.
// Exactly one is active per process, chosen by configuration.
type Accelerator string

const (
	AccelNone  Accelerator = "none"
	AccelNVENC Accelerator = "nvenc"
	AccelQSV   Accelerator = "qsv"
	AccelVAAPI Accelerator = "vaapi"
)

// EncoderParams is the structured result of planning one rendition's
// encoder invocation: a decode-side prefix, the encode-side argument run,
// and (when the source is HDR) the software tonemap filter graph that must
// run ahead of the encoder's scale filter.
type EncoderParams struct {
	Accelerator Accelerator
	DecodeArgs  []string
	EncodeArgs  []string
	FilterGraph string
}
