package domain

type StepID string

const (
	StepResidency  StepID = "residency"
	StepPersonal   StepID = "personal"
	StepVisa       StepID = "visa"
	StepDelta      StepID = "delta"
	StepEducation  StepID = "education"
	StepExperience StepID = "experience"
	StepLanguage   StepID = "language"
	StepDocuments  StepID = "documents"
)

// StepOrder is the canonical wizard order. Index positions are stable and
// used as navigation coordinates.
var StepOrder = []StepID{
	StepResidency,
	StepPersonal,
	StepVisa,
	StepDelta,
	StepEducation,
	StepExperience,
	StepLanguage,
	StepDocuments,
}

type ResidencyCategory string

const (
	ResidencyUnset    ResidencyCategory = ""
	ResidencyDomestic ResidencyCategory = "domestic"
	ResidencyOverseas ResidencyCategory = "overseas"
)

// ValidResidencyCategories is the canonical set of selectable categories.
var ValidResidencyCategories = map[ResidencyCategory]bool{
	ResidencyDomestic: true,
	ResidencyOverseas: true,
}

type SaveStatus string

const (
	SaveIdle   SaveStatus = "idle"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveError  SaveStatus = "error"
)

type BadgeID string

const (
	BadgeProfile   BadgeID = "profile"
	BadgeIdentity  BadgeID = "identity"
	BadgeVisa      BadgeID = "visa"
	BadgeEducation BadgeID = "education"
)

// BadgeOrder is the display order of badges.
var BadgeOrder = []BadgeID{BadgeProfile, BadgeIdentity, BadgeVisa, BadgeEducation}

type BadgeStatus string

const (
	BadgeLocked   BadgeStatus = "locked"
	BadgePending  BadgeStatus = "pending"
	BadgeVerified BadgeStatus = "verified"
)

// ValidBadgeStatuses is the canonical set of accepted badge status strings.
var ValidBadgeStatuses = map[string]bool{
	"locked": true, "pending": true, "verified": true,
}

type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldNumber  FieldKind = "number"
	FieldDate    FieldKind = "date"
	FieldSelect  FieldKind = "select"
	FieldBoolean FieldKind = "boolean"
)

// ValidFieldKinds is the canonical set of accepted field kind strings.
var ValidFieldKinds = map[FieldKind]bool{
	FieldText: true, FieldNumber: true, FieldDate: true,
	FieldSelect: true, FieldBoolean: true,
}

type SchemaStatus string

const (
	SchemaNone    SchemaStatus = ""
	SchemaLoading SchemaStatus = "loading"
	SchemaReady   SchemaStatus = "ready"
	SchemaFailed  SchemaStatus = "failed"
)
