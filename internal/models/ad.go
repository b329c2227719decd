package models

import "time"

// StrategyAngle is the psychological angle an ad campaign leans on.
// Values are the Spanish labels the store has always used; they appear
// verbatim in prompts and in persisted campaigns.
type StrategyAngle string

const (
	StrategyPainVsSolution StrategyAngle = "Dolor vs Solución"
	StrategyExclusivity    StrategyAngle = "Exclusividad"
	StrategyScarcity       StrategyAngle = "Escasez"
	StrategySocialProof    StrategyAngle = "Prueba Social"
	StrategyUrgency        StrategyAngle = "Urgencia"
	StrategyCustom         StrategyAngle = "Personalizado"
)

// StrategyAngles lists every known angle, in menu order.
var StrategyAngles = []StrategyAngle{
	StrategyPainVsSolution,
	StrategyExclusivity,
	StrategyScarcity,
	StrategySocialProof,
	StrategyUrgency,
	StrategyCustom,
}

// Valid reports whether s is one of the known angles.
func (s StrategyAngle) Valid() bool {
	for _, known := range StrategyAngles {
		if s == known {
			return true
		}
	}
	return false
}

// TextLength controls how long the generated ad copy should be.
type TextLength string

const (
	LengthShort  TextLength = "short"
	LengthMedium TextLength = "medium"
	LengthLong   TextLength = "long"
)

// AdCampaign is a saved ad: the generated copy plus the marketing image
// that was produced in the context of that copy.
//
// JSON tags match the persisted blob written by earlier versions of the
// front end, so existing databases stay readable.
type AdCampaign struct {
	ID             string        `json:"id"`
	ProductName    string        `json:"productName"`
	Price          string        `json:"price"`
	Description    string        `json:"description"`
	Strategy       StrategyAngle `json:"strategy"`
	GeneratedCopy  string        `json:"generatedCopy"`
	GeneratedImage string        `json:"generatedImage"` // data URI or URL
	CreatedAt      time.Time     `json:"createdAt"`
}

// GenerateAdCopyRequest asks for ad copy only. Changing the length
// re-runs this step alone; any generated image is left untouched.
type GenerateAdCopyRequest struct {
	ProductName string        `json:"product_name"`
	Price       string        `json:"price"`
	Strategy    StrategyAngle `json:"strategy"`
	Description string        `json:"description"`
	Length      TextLength    `json:"length"`
}

// GenerateAdImageRequest asks for the marketing image conditioned on
// already-generated copy. Refinement carries the latest manual
// correction; it replaces any previous one rather than accumulating.
type GenerateAdImageRequest struct {
	ProductName string        `json:"product_name"`
	ImageRef    string        `json:"image_ref"`
	Copy        string        `json:"copy"`
	Strategy    StrategyAngle `json:"strategy"`
	Refinement  string        `json:"refinement,omitempty"`
}

// SaveAdRequest persists a finished campaign.
type SaveAdRequest struct {
	ProductName    string        `json:"product_name"`
	Price          string        `json:"price"`
	Description    string        `json:"description"`
	Strategy       StrategyAngle `json:"strategy"`
	GeneratedCopy  string        `json:"generated_copy"`
	GeneratedImage string        `json:"generated_image"`
}
