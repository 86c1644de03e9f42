package plagiarism

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/RishiKendai/aegis/internal/metrics"
	"github.com/RishiKendai/aegis/internal/models"
	"github.com/RishiKendai/aegis/internal/repository"
	"github.com/RishiKendai/aegis/internal/scoring"
	"github.com/rs/zerolog/log"
)

// Config holds the engine parameters a drive-wide computation run needs.
// MinimumTokenMatch and MergeBuffer feed the Matcher directly; MergeLength
// is the independent chain-gap threshold MergeMatches bridges envelopes
// with (kept distinct from MergeBuffer, which only tunes the matcher's
// internal minimum-match window). Metric picks which SimilarityMetric
// formula scores a Comparison; SimilarityThreshold is the floor a pair's
// score must clear to be considered significant, independent of the
// cheaper bucket-overlap floor GII prefiltering uses.
// MaximumNumberOfComparisons caps how many significant pairs are kept
// and persisted, retaining the highest-scoring ones by Metric; 0 or
// negative means no cap.
type Config struct {
	MinimumTokenMatch          int
	MergeBuffer                int
	MergeLength                int
	Metric                     SimilarityMetric
	SimilarityThreshold        float64
	BatchSize                  int
	MaximumNumberOfComparisons int
}

// ComputationJob compares one pair of submissions on a worker-pool
// goroutine and reports the scored outcome back on a channel, mirroring
// the worker-pool job shape used for CPU-bound batches.
type ComputationJob struct {
	Matcher     *Matcher
	Pair        Pair
	ArtifactA   *models.Artifact
	ArtifactB   *models.Artifact
	Metric      SimilarityMetric
	MergeLength int
	QID         string
	Difficulty  string
	ResultChan  chan<- pairOutcome
	DoneChan    chan<- struct{}
}

type pairOutcome struct {
	similarity scoring.PairSimilarity
	regions    []models.MatchRegion
	simMap     map[string]float64
}

// Execute runs the comparison and reports the scored pair.
func (j *ComputationJob) Execute(ctx context.Context) error {
	defer func() {
		select {
		case j.DoneChan <- struct{}{}:
		default:
		}
	}()

	cmp := j.Matcher.Compare(j.Pair.A, j.Pair.B)
	score := j.Metric.Evaluate(cmp)
	merged := MergeMatches(cmp, j.MergeLength)

	outcome := pairOutcome{
		similarity: scoring.PairSimilarity{
			AttemptIDA: j.ArtifactA.AttemptID,
			AttemptIDB: j.ArtifactB.AttemptID,
			EmailA:     j.ArtifactA.Email,
			EmailB:     j.ArtifactB.Email,
			FinalScore: score,
			QID:        j.QID,
			Difficulty: j.Difficulty,
		},
		regions: regionsFromMerge(j.ArtifactA, j.ArtifactB, merged),
		simMap:  SimilarityMap(cmp),
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case j.ResultChan <- outcome:
		return nil
	}
}

func regionsFromMerge(a, b *models.Artifact, regions []MergedRegion) []models.MatchRegion {
	out := make([]models.MatchRegion, 0, len(regions))
	for _, r := range regions {
		out = append(out, models.MatchRegion{
			FileA:  a.AttemptID,
			FileB:  b.AttemptID,
			StartA: r.StartInFirst,
			EndA:   r.EndInFirst,
			StartB: r.StartInSecond,
			EndB:   r.EndInSecond,
			Tokens: r.MatchedTokens,
		})
	}
	return out
}

// ComputePlagiarism loads every artifact submitted for a drive, buckets
// them by question and language, finds worthy pairs within each bucket
// and aggregates the results into candidate and drive-level reports.
func ComputePlagiarism(
	ctx context.Context,
	driveID string,
	lookupExcluder func(language string) (func(TokenType) bool, bool),
	artifactsRepo *repository.ArtifactsRepository,
	resultsRepo *repository.ResultsRepository,
	comparisonsRepo *repository.ComparisonsRepository,
	workerPool *WorkerPool,
	cfg Config,
) error {
	artifacts, err := artifactsRepo.GetArtifactsByDriveID(ctx, driveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to load artifacts")
		return fmt.Errorf("failed to load artifacts: %w", err)
	}
	if len(artifacts) == 0 {
		return fmt.Errorf("no artifacts found for driveId: %s", driveID)
	}

	uniqueCandidates := make(map[string]bool)
	for _, artifact := range artifacts {
		uniqueCandidates[artifact.Email] = true
	}
	if len(uniqueCandidates) == 1 {
		return handleSingleCandidate(ctx, artifacts[0], resultsRepo, driveID)
	}

	buckets := groupByQuestionAndLanguage(artifacts)

	significantOutcomes := make([]pairOutcome, 0)

	for qID, langBuckets := range buckets {
		for language, bucketArtifacts := range langBuckets {
			if len(bucketArtifacts) < 2 {
				continue
			}

			isExcludedFromMatching, ok := lookupExcluder(language)
			if !ok {
				log.Warn().Str("language", language).Msg("No front-end registered for language, skipping bucket")
				continue
			}

			matcher := NewMatcher(cfg.MinimumTokenMatch, cfg.MergeBuffer, isExcludedFromMatching)
			subs, byAttempt := submissionsFor(bucketArtifacts, cfg.MinimumTokenMatch)
			if len(subs) < 2 {
				continue
			}

			gii := matcher.BuildGII(subs)
			if len(gii) == 0 {
				log.Info().Str("qId", qID).Str("language", language).Msg("No worthy pairs found (GII empty)")
				continue
			}

			difficulty := bucketArtifacts[0].Difficulty
			worthyPairs := matcher.GetWorthyPairs(gii, subs, WorthyThreshold(difficulty))
			if len(worthyPairs) == 0 {
				log.Info().Str("qId", qID).Str("language", language).Msg("No worthy pairs found after threshold check")
				continue
			}

			outcomes := processPairsInBatches(ctx, matcher, worthyPairs, byAttempt, difficulty, qID, cfg.Metric, cfg.MergeLength, workerPool)

			for _, outcome := range outcomes {
				significant := outcome.similarity.FinalScore >= cfg.SimilarityThreshold
				metrics.ObserveComparison(significant)
				if !significant {
					continue
				}
				significantOutcomes = append(significantOutcomes, outcome)
			}
		}
	}

	if len(significantOutcomes) == 0 {
		return handleNoSignificantPairs(ctx, artifacts, resultsRepo, driveID)
	}

	if cfg.MaximumNumberOfComparisons > 0 && len(significantOutcomes) > cfg.MaximumNumberOfComparisons {
		sort.Slice(significantOutcomes, func(i, j int) bool {
			return significantOutcomes[i].similarity.FinalScore > significantOutcomes[j].similarity.FinalScore
		})
		log.Info().
			Int("total", len(significantOutcomes)).
			Int("kept", cfg.MaximumNumberOfComparisons).
			Str("driveId", driveID).
			Msg("Capping reported comparisons to the configured maximum, keeping the top-scoring pairs")
		significantOutcomes = significantOutcomes[:cfg.MaximumNumberOfComparisons]
	}

	allPairs := make([]scoring.PairSimilarity, 0, len(significantOutcomes))
	candidatePairsMap := make(map[string][]scoring.PairSimilarity)

	for _, outcome := range significantOutcomes {
		allPairs = append(allPairs, outcome.similarity)
		candidatePairsMap[outcome.similarity.EmailA] = append(candidatePairsMap[outcome.similarity.EmailA], outcome.similarity)
		candidatePairsMap[outcome.similarity.EmailB] = append(candidatePairsMap[outcome.similarity.EmailB], outcome.similarity)

		if err := persistComparison(ctx, comparisonsRepo, driveID, outcome.similarity.QID, outcome.similarity.Difficulty, outcome); err != nil {
			log.Error().Err(err).Msg("Failed to persist comparison result")
		}
	}

	return aggregateResults(ctx, artifacts, allPairs, candidatePairsMap, resultsRepo, driveID)
}

func persistComparison(ctx context.Context, repo *repository.ComparisonsRepository, driveID, qID, difficulty string, outcome pairOutcome) error {
	qidNum, _ := strconv.ParseInt(qID, 10, 64)
	result := &models.ComparisonResult{
		DriveID:    driveID,
		QID:        qidNum,
		Difficulty: difficulty,
		AttemptIDA: outcome.similarity.AttemptIDA,
		AttemptIDB: outcome.similarity.AttemptIDB,
		EmailA:     outcome.similarity.EmailA,
		EmailB:     outcome.similarity.EmailB,
		Similarity: outcome.simMap,
		Regions:    outcome.regions,
	}
	return repo.InsertComparison(ctx, result)
}

// submissionsFor converts a bucket's artifacts into submissions, excluding
// any submission too short to ever produce a match of minimumTokenMatch
// (spec'd as a non-fatal exclusion, not an error): it is logged and
// skipped rather than fed into the matcher.
func submissionsFor(artifacts []*models.Artifact, minimumTokenMatch int) ([]*Submission, map[string]*models.Artifact) {
	subs := make([]*Submission, 0, len(artifacts))
	byAttempt := make(map[string]*models.Artifact, len(artifacts))
	for _, artifact := range artifacts {
		dtos := artifact.NormalizedTokens
		if len(dtos) == 0 {
			dtos = artifact.Tokens
		}
		sub := &Submission{Name: artifact.AttemptID, Tokens: tokensFromDTO(dtos)}
		if !sub.Valid(minimumTokenMatch) {
			log.Warn().
				Str("attemptId", artifact.AttemptID).
				Int("tokens", sub.NumberOfTokens()).
				Int("minimumTokenMatch", minimumTokenMatch).
				Msg("Submission too short for minimum token match, excluding from comparison")
			continue
		}
		subs = append(subs, sub)
		byAttempt[artifact.AttemptID] = artifact
	}
	return subs, byAttempt
}

func tokensFromDTO(dtos []models.TokenDTO) []Token {
	tokens := make([]Token, 0, len(dtos))
	for _, dto := range dtos {
		t := Token{
			Type:   TokenType(dto.Type),
			File:   dto.File,
			Line:   dto.Line,
			Column: dto.Column,
			Length: dto.Length,
		}
		if dto.HasSemantics {
			t.Semantics = NewSemantics(dto.Critical, dto.Control, dto.Reads, dto.Writes)
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func processPairsInBatches(
	ctx context.Context,
	matcher *Matcher,
	pairs []Pair,
	byAttempt map[string]*models.Artifact,
	difficulty string,
	qID string,
	metric SimilarityMetric,
	mergeLength int,
	workerPool *WorkerPool,
) []pairOutcome {
	resultChan := make(chan pairOutcome, len(pairs))
	doneChan := make(chan struct{}, len(pairs))

	for _, pair := range pairs {
		job := &ComputationJob{
			Matcher:     matcher,
			Pair:        pair,
			ArtifactA:   byAttempt[pair.A.Name],
			ArtifactB:   byAttempt[pair.B.Name],
			Metric:      metric,
			MergeLength: mergeLength,
			QID:         qID,
			Difficulty:  difficulty,
			ResultChan:  resultChan,
			DoneChan:    doneChan,
		}
		if err := workerPool.Submit(job); err != nil {
			log.Error().Err(err).Msg("Failed to submit job")
		}
	}

	expected := len(pairs)
	resultsMap := make(map[string]pairOutcome)

	for len(resultsMap) < expected {
		select {
		case <-ctx.Done():
			return flattenOutcomes(resultsMap)
		case outcome := <-resultChan:
			key := getPairKey(outcome.similarity.AttemptIDA, outcome.similarity.AttemptIDB)
			resultsMap[key] = outcome
		case <-doneChan:
		}
	}

	return flattenOutcomes(resultsMap)
}

func flattenOutcomes(m map[string]pairOutcome) []pairOutcome {
	out := make([]pairOutcome, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func groupByQuestionAndLanguage(artifacts []*models.Artifact) map[string]map[string][]*models.Artifact {
	buckets := make(map[string]map[string][]*models.Artifact)
	for _, artifact := range artifacts {
		qID := strconv.FormatInt(artifact.QID, 10)
		if buckets[qID] == nil {
			buckets[qID] = make(map[string][]*models.Artifact)
		}
		buckets[qID][artifact.Language] = append(buckets[qID][artifact.Language], artifact)
	}
	return buckets
}

func getPairKey(idA, idB string) string {
	if idA < idB {
		return idA + ":" + idB
	}
	return idB + ":" + idA
}

func handleSingleCandidate(ctx context.Context, artifact *models.Artifact, resultsRepo *repository.ResultsRepository, driveID string) error {
	candidateResult := &models.CandidateResult{
		Email:            artifact.Email,
		AttemptID:        artifact.AttemptID,
		DriveID:          driveID,
		Risk:             "clean",
		FlaggedQuestions: []string{},
		PlagiarismPeers:  make(map[string][]string),
		CodeSimilarity:   0,
		AlgoSimilarity:   0,
		PlagiarismStatus: "completed",
	}
	if err := resultsRepo.InsertCandidateResult(ctx, candidateResult); err != nil {
		return fmt.Errorf("failed to insert candidate result: %w", err)
	}

	testReport := &models.TestReport{
		DriveID:          driveID,
		Risk:             "Safe",
		Status:           "completed",
		FlaggedQuestions: []string{},
	}
	if err := resultsRepo.InsertTestReport(ctx, testReport); err != nil {
		return fmt.Errorf("failed to insert test report: %w", err)
	}

	log.Debug().Str("driveId", driveID).Msg("Handled single candidate case")
	return nil
}

func handleNoSignificantPairs(ctx context.Context, artifacts []*models.Artifact, resultsRepo *repository.ResultsRepository, driveID string) error {
	uniqueCandidates := make(map[string]*models.Artifact)
	for _, artifact := range artifacts {
		if _, exists := uniqueCandidates[artifact.Email]; !exists {
			uniqueCandidates[artifact.Email] = artifact
		}
	}

	for _, artifact := range uniqueCandidates {
		candidateResult := &models.CandidateResult{
			Email:            artifact.Email,
			AttemptID:        artifact.AttemptID,
			DriveID:          driveID,
			Risk:             "clean",
			FlaggedQuestions: []string{},
			PlagiarismPeers:  make(map[string][]string),
			CodeSimilarity:   0,
			AlgoSimilarity:   0,
			PlagiarismStatus: "completed",
		}
		if err := resultsRepo.InsertCandidateResult(ctx, candidateResult); err != nil {
			return fmt.Errorf("failed to insert candidate result: %w", err)
		}
	}

	testReport := &models.TestReport{
		DriveID:          driveID,
		Risk:             "Safe",
		Status:           "completed",
		FlaggedQuestions: []string{},
	}
	if err := resultsRepo.InsertTestReport(ctx, testReport); err != nil {
		return fmt.Errorf("failed to insert test report: %w", err)
	}

	log.Info().Str("driveId", driveID).Msg("Handled no significant pairs case")
	return nil
}

func aggregateResults(
	ctx context.Context,
	artifacts []*models.Artifact,
	allPairs []scoring.PairSimilarity,
	candidatePairsMap map[string][]scoring.PairSimilarity,
	resultsRepo *repository.ResultsRepository,
	driveID string,
) error {
	uniqueCandidates := make(map[string]*models.Artifact)
	for _, artifact := range artifacts {
		if _, exists := uniqueCandidates[artifact.Email]; !exists {
			uniqueCandidates[artifact.Email] = artifact
		}
	}

	candidateResults := make([]*models.CandidateResult, 0)
	flaggedQuestions := make(map[string]bool)
	flaggedCandidates := 0

	for email, artifact := range uniqueCandidates {
		pairs := candidatePairsMap[email]
		if len(pairs) == 0 {
			candidateResults = append(candidateResults, &models.CandidateResult{
				Email:            email,
				AttemptID:        artifact.AttemptID,
				DriveID:          driveID,
				Risk:             "clean",
				FlaggedQuestions: []string{},
				PlagiarismPeers:  make(map[string][]string),
				PlagiarismStatus: "completed",
			})
			continue
		}

		score := scoring.CandidateScore(pairs)
		risk := scoring.GetRiskLevel(score)

		flaggedSet := make(map[string]bool)
		peers := make(map[string][]string)
		codeSimilarity := 0
		algoSimilarity := 0

		for _, pair := range pairs {
			flaggedSet[pair.QID] = true
			if pair.EmailA == email {
				peers[pair.QID] = append(peers[pair.QID], pair.AttemptIDB)
			} else {
				peers[pair.QID] = append(peers[pair.QID], pair.AttemptIDA)
			}
			if pair.FinalScore >= 0.55 {
				codeSimilarity++
			}
			if pair.FinalScore >= 0.70 {
				algoSimilarity++
			}
		}

		flaggedList := make([]string, 0, len(flaggedSet))
		for qID := range flaggedSet {
			flaggedList = append(flaggedList, qID)
			flaggedQuestions[qID] = true
		}

		if risk != "clean" {
			flaggedCandidates++
		}

		candidateResults = append(candidateResults, &models.CandidateResult{
			Email:            email,
			AttemptID:        artifact.AttemptID,
			DriveID:          driveID,
			Risk:             risk,
			FlaggedQuestions: flaggedList,
			PlagiarismPeers:  peers,
			CodeSimilarity:   codeSimilarity,
			AlgoSimilarity:   algoSimilarity,
			PlagiarismStatus: "completed",
		})
	}

	for _, result := range candidateResults {
		if err := resultsRepo.InsertCandidateResult(ctx, result); err != nil {
			return fmt.Errorf("failed to insert candidate result: %w", err)
		}
	}

	totalQuestions := len(groupByQuestionAndLanguage(artifacts))

	avgDifficulty := 0.0
	for _, artifact := range artifacts {
		avgDifficulty += scoring.DifficultyToFloat(artifact.Difficulty)
	}
	if len(artifacts) > 0 {
		avgDifficulty /= float64(len(artifacts))
	}

	avgSimilarity := 0.0
	if len(allPairs) > 0 {
		sum := 0.0
		for _, pair := range allPairs {
			sum += pair.FinalScore
		}
		avgSimilarity = sum / float64(len(allPairs))
	}

	flaggedList := make([]string, 0, len(flaggedQuestions))
	for qID := range flaggedQuestions {
		flaggedList = append(flaggedList, qID)
	}

	_, riskLevel := scoring.TestRisk(totalQuestions, avgDifficulty, avgSimilarity, len(flaggedList))

	testReport := &models.TestReport{
		DriveID:           driveID,
		Risk:              riskLevel,
		Status:            "completed",
		FlaggedQuestions:  flaggedList,
		FlaggedCandidates: flaggedCandidates,
		TotalAnalyzed:     len(uniqueCandidates),
	}
	if err := resultsRepo.InsertTestReport(ctx, testReport); err != nil {
		return fmt.Errorf("failed to insert test report: %w", err)
	}

	log.Info().
		Str("driveId", driveID).
		Int("candidates", len(candidateResults)).
		Int("flagged", flaggedCandidates).
		Str("testRisk", riskLevel).
		Msg("Computation completed successfully")

	return nil
}
