package progress

// Stats aggregates accepted answers over a whole game.
type Stats struct {
	AttemptCount        int
	AverageErrorPercent float64
	ProblemsSolvedCount int
}

// CumulativeAverage folds value into avg, the mean of count prior values.
func CumulativeAverage(value, avg float64, count int) float64 {
	return avg + (value-avg)/float64(count+1)
}

// Record adds one solved problem with its error percent and attempt count.
func (s *Stats) Record(errorPercent float64, tries int) {
	s.AverageErrorPercent = CumulativeAverage(errorPercent, s.AverageErrorPercent, s.ProblemsSolvedCount)
	s.ProblemsSolvedCount++
	s.AttemptCount += tries
}
