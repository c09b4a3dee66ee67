package performance

import (
	"math"

	"qr-feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const ratingsPerEntry = 5

type AdvisorPerformance struct {
	ID               bson.ObjectID          `json:"id"`
	Name             string                 `json:"name"`
	TotalFeedback    int                    `json:"totalFeedback"`
	AverageRating    float64                `json:"averageRating"`
	RatingsBreakdown map[int]int            `json:"ratingsBreakdown"`
	Feedback         []models.FeedbackEntry `json:"feedback"`
}

func EntryAverage(e models.FeedbackEntry) float64 {
	return float64(entrySum(e)) / ratingsPerEntry
}

// RoundedAverage rounds the entry average half up.
func RoundedAverage(e models.FeedbackEntry) int {
	return int(math.Floor(EntryAverage(e) + 0.5))
}

func Filter(entries []models.FeedbackEntry, r DateRange) []models.FeedbackEntry {
	out := make([]models.FeedbackEntry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

func NewBreakdown() map[int]int {
	return map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

func Summarize(a *models.Advisor, r DateRange) AdvisorPerformance {
	feedback := Filter(a.PerformanceData, r)

	breakdown := NewBreakdown()
	total := 0
	for _, e := range feedback {
		total += entrySum(e)
		// out-of-range averages only come from legacy documents written before validation
		if bucket := RoundedAverage(e); bucket >= 1 && bucket <= 5 {
			breakdown[bucket]++
		}
	}

	return AdvisorPerformance{
		ID:               a.ID,
		Name:             a.Name,
		TotalFeedback:    len(feedback),
		AverageRating:    meanRating(total, len(feedback)),
		RatingsBreakdown: breakdown,
		Feedback:         feedback,
	}
}

func SummarizeAll(advisors []models.Advisor, r DateRange) []AdvisorPerformance {
	results := make([]AdvisorPerformance, 0, len(advisors))
	for i := range advisors {
		results = append(results, Summarize(&advisors[i], r))
	}
	return results
}

func entrySum(e models.FeedbackEntry) int {
	sum := 0
	for _, q := range e.Ratings() {
		sum += q
	}
	return sum
}

func meanRating(total, entries int) float64 {
	if entries == 0 {
		return 0
	}
	mean := float64(total) / float64(entries*ratingsPerEntry)
	return math.Round(mean*100) / 100
}
