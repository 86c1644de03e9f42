package models

import "time"

// MatchRegion is one bridged matched region between two artifacts, the
// shape named by the persisted-output contract: positions are line
// numbers when the front-end supports columns-and-lines, else token
// indices.
type MatchRegion struct {
	FileA  string `bson:"fileA" json:"fileA"`
	FileB  string `bson:"fileB" json:"fileB"`
	StartA int    `bson:"startA" json:"startA"`
	EndA   int    `bson:"endA" json:"endA"`
	StartB int    `bson:"startB" json:"startB"`
	EndB   int    `bson:"endB" json:"endB"`
	Tokens int    `bson:"tokens" json:"tokens"`
}

// ComparisonResult is the persisted outcome of comparing two artifacts:
// a similarity dictionary plus the matched regions behind it.
type ComparisonResult struct {
	DriveID    string `bson:"driveId" json:"driveId"`
	QID        int64  `bson:"qId" json:"qId"`
	Difficulty string `bson:"difficulty" json:"difficulty"`

	AttemptIDA string `bson:"attemptIdA" json:"attemptIdA"`
	AttemptIDB string `bson:"attemptIdB" json:"attemptIdB"`
	EmailA     string `bson:"emailA" json:"emailA"`
	EmailB     string `bson:"emailB" json:"emailB"`

	Similarity map[string]float64 `bson:"similarity" json:"similarity"`
	Regions    []MatchRegion      `bson:"regions" json:"regions"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
