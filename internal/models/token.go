package models

// TokenDTO is the wire/storage shape of a single token, mirroring
// plagiarism.Token flattened for JSON/BSON round-tripping.
type TokenDTO struct {
	Type   string `bson:"type" json:"type"`
	File   string `bson:"file" json:"file"`
	Line   int    `bson:"line" json:"line"`
	Column int    `bson:"column" json:"column"`
	Length int    `bson:"length" json:"length"`

	Critical bool     `bson:"critical,omitempty" json:"critical,omitempty"`
	Control  bool     `bson:"control,omitempty" json:"control,omitempty"`
	Reads    []string `bson:"reads,omitempty" json:"reads,omitempty"`
	Writes   []string `bson:"writes,omitempty" json:"writes,omitempty"`

	// HasSemantics distinguishes "no semantics reported" from
	// "semantics reported but everything is false/empty".
	HasSemantics bool `bson:"hasSemantics,omitempty" json:"hasSemantics,omitempty"`
}
