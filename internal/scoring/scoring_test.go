package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateScore_NoSignificantPairsScoresZero(t *testing.T) {
	pairs := []PairSimilarity{
		{FinalScore: 0.2, EmailB: "peer1"},
		{FinalScore: 0.4, EmailB: "peer2"},
	}
	assert.Equal(t, 0.0, CandidateScore(pairs))
}

func TestCandidateScore_SinglePeerHasNoFrequencyBoost(t *testing.T) {
	pairs := []PairSimilarity{
		{FinalScore: 0.9, EmailB: "peer1"},
	}
	assert.InDelta(t, 0.9, CandidateScore(pairs), 0.001)
}

func TestCandidateScore_MultiplePeersAddFrequencyBoost(t *testing.T) {
	pairs := []PairSimilarity{
		{FinalScore: 0.9, EmailB: "peer1"},
		{FinalScore: 0.8, EmailB: "peer2"},
		{FinalScore: 0.7, EmailB: "peer3"},
	}
	// top-3 avg = 0.8, boost = min(0.15, 0.05*2) = 0.10
	assert.InDelta(t, 0.90, CandidateScore(pairs), 0.001)
}

func TestCandidateScore_OnlyTopThreeCountTowardTheAverage(t *testing.T) {
	pairs := []PairSimilarity{
		{FinalScore: 0.9, EmailB: "peer1"},
		{FinalScore: 0.9, EmailB: "peer2"},
		{FinalScore: 0.9, EmailB: "peer3"},
		{FinalScore: 0.56, EmailB: "peer4"},
	}
	score := CandidateScore(pairs)
	// top-3 avg = 0.9, boost = min(0.15, 0.05*3) = 0.15, clamped to 1.0
	assert.InDelta(t, 1.0, score, 0.001)
}

func TestCandidateScore_ScoreNeverExceedsOne(t *testing.T) {
	pairs := make([]PairSimilarity, 0, 10)
	for i := 0; i < 10; i++ {
		pairs = append(pairs, PairSimilarity{FinalScore: 0.99, EmailB: string(rune('a' + i))})
	}
	assert.LessOrEqual(t, CandidateScore(pairs), 1.0)
}

func TestGetRiskLevel_Buckets(t *testing.T) {
	assert.Equal(t, "clean", GetRiskLevel(0.0))
	assert.Equal(t, "clean", GetRiskLevel(0.29))
	assert.Equal(t, "suspicious", GetRiskLevel(0.3))
	assert.Equal(t, "suspicious", GetRiskLevel(0.59))
	assert.Equal(t, "highly suspicious", GetRiskLevel(0.6))
	assert.Equal(t, "highly suspicious", GetRiskLevel(0.84))
	assert.Equal(t, "near copy", GetRiskLevel(0.85))
	assert.Equal(t, "near copy", GetRiskLevel(1.0))
}

func TestTestRisk_CombinesSimilarityAndFlaggedFraction(t *testing.T) {
	risk, level := TestRisk(5, 0.5, 0.5, 2)
	assert.InDelta(t, 0.47, risk, 0.001)
	assert.Equal(t, "Moderate", level)
}

func TestTestRisk_ZeroEverythingIsSafe(t *testing.T) {
	risk, level := TestRisk(5, 0.0, 0.0, 0)
	assert.Equal(t, 0.0, risk)
	assert.Equal(t, "Safe", level)
}

func TestTestRisk_HighSimilarityAndFlaggedIsCritical(t *testing.T) {
	_, level := TestRisk(5, 1.0, 1.0, 5)
	assert.Equal(t, "Critical", level)
}

func TestDifficultyToFloat(t *testing.T) {
	assert.InDelta(t, 0.33, DifficultyToFloat("easy"), 0.001)
	assert.InDelta(t, 0.66, DifficultyToFloat("medium"), 0.001)
	assert.InDelta(t, 1.0, DifficultyToFloat("hard"), 0.001)
	assert.InDelta(t, 0.5, DifficultyToFloat("unknown"), 0.001)
}
