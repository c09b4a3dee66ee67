/*
Package performance aggregates advisor feedback for the manager dashboard.

Each feedback entry carries five Likert ratings. The entry average is their
arithmetic mean; the rounded average (half up) selects one of five buckets:

	perf := performance.Summarize(advisor, performance.DateRange{})
	perf.RatingsBreakdown[4] // entries whose average rounds to 4

AverageRating is the mean of the unrounded entry averages, rounded to two
decimal places, and 0 when no entry falls inside the range. Everything is
computed from integer sums, so results do not depend on entry order.
*/
package performance
