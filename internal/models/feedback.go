package models

import (
	"time"
)

const AnonymousCustomer = "Anonymous"

// FeedbackEntry is a single submission embedded in Advisor.PerformanceData.
// Q1..Q5 are Likert ratings in [1,5]:
// personal attention, professionalism, product knowledge, understanding needs, overall satisfaction.
type FeedbackEntry struct {
	Date         time.Time `bson:"date" json:"date"`
	CustomerName string    `bson:"customerName" json:"customerName"`
	Q1           int       `bson:"q1" json:"q1"`
	Q2           int       `bson:"q2" json:"q2"`
	Q3           int       `bson:"q3" json:"q3"`
	Q4           int       `bson:"q4" json:"q4"`
	Q5           int       `bson:"q5" json:"q5"`
	Comment      string    `bson:"comment" json:"comment"`
}

func (f FeedbackEntry) Ratings() [5]int {
	return [5]int{f.Q1, f.Q2, f.Q3, f.Q4, f.Q5}
}

// Questions lists the Likert prompts in the order of Q1..Q5.
var Questions = [5]string{
	"How satisfied were you with the level of personal attention you received?",
	"How would you rate the Client Advisor's professionalism and demeanor?",
	"Did the Client Advisor demonstrate expert product knowledge and recommendations?",
	"How well did the Client Advisor understand your needs and preferences?",
	"Overall, how satisfied were you with your experience with the Client Advisor?",
}
