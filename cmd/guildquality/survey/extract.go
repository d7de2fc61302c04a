package survey

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	UnknownCustomer = "Unknown customer"
	NoScoreGiven    = "No score given"
	NotAvailable    = "N/A"

	SiteVisits            = "Site Visits"
	ProjectKickOff        = "Project Kick-Off"
	FinalWalkthrough      = "Final Walkthrough"
	LikelyToRecommend     = "Likely To Recommend"
	Communication         = "Communication"
	ProfessionalOrganized = "Professional & Organized"
)

// ratedQuestions are rendered in this order.
var ratedQuestions = []string{LikelyToRecommend, Communication, ProfessionalOrganized}

type Fields struct {
	Customer         string
	Satisfaction     string
	KickOff          bool
	FinalWalkthrough bool
	Ratings          []RatedQuestion

	// OverallComment is the free text review found in flat payloads.
	OverallComment string

	// CustomerSource and SatisfactionSource name the probe that matched, empty on fallback.
	CustomerSource     string
	SatisfactionSource string
}

type RatedQuestion struct {
	Label   string
	Rating  *float64
	Comment string
}

// probe is one candidate location for a field. pick returns "" when the
// candidate is absent or empty so the next probe gets a turn.
type probe struct {
	name string
	pick func(payload gjson.Result) string
}

var customerProbes = []probe{
	{"data.contact.name", text("data.contact.name")},
	{"data.displayName", text("data.displayName")},
	{"person.full_name", personText("full_name")},
	{"person.first_name+last_name", personFullName},
	{"contact.name", text("contact.name")},
	{"project.customer_name", text("project.customer_name")},
	{"project.client_name", text("project.client_name")},
	{"customer.name", text("customer.name")},
}

var satisfactionProbes = []probe{
	{"data.satisfactionScore", percent("data.satisfactionScore")},
	{"answers", answerScore},
	{"overallRating", text("overallRating")},
	{"survey.overallRating", text("survey.overallRating")},
}

var commentProbes = []probe{
	{"comment", text("comment")},
	{"public_comment", text("public_comment")},
	{"review.comment", text("review.comment")},
	{"answers", answerComment},
}

var (
	answerArrayKeys = []string{"answers", "survey_answers", "response_answers", "responses"}
	answerLabelKeys = []string{"label", "question_label", "question", "key"}
	answerValueKeys = []string{"value", "answer", "score", "rating"}

	scoreLabels   = []string{"likely to recommend", "overall satisfaction", "nps", "net promoter", "overall rating"}
	commentLabels = []string{"comment", "review", "feedback", "notes"}
)

// Extract never fails: every field falls back to a fixed value.
func Extract(payload gjson.Result) Fields {
	var fields Fields
	fields.Customer, fields.CustomerSource = firstMatch(payload, customerProbes)
	fields.Satisfaction, fields.SatisfactionSource = firstMatch(payload, satisfactionProbes)
	fields.OverallComment, _ = firstMatch(payload, commentProbes)
	if fields.Customer == "" {
		fields.Customer = UnknownCustomer
	}
	if fields.Satisfaction == "" {
		// the structured envelope reports a missing percentage, flat payloads a missing value
		if payload.Get("data").IsObject() {
			fields.Satisfaction = NoScoreGiven
		} else {
			fields.Satisfaction = NotAvailable
		}
	}

	questions := payload.Get("data.questions")

	responses := findQuestion(questions, SiteVisits).Get("response")
	if !responses.IsArray() {
		responses = gjson.Result{}
	}
	for _, response := range responses.Array() {
		if response.Type != gjson.String {
			continue
		}
		switch response.Str {
		case ProjectKickOff:
			fields.KickOff = true
		case FinalWalkthrough:
			fields.FinalWalkthrough = true
		}
	}

	for _, label := range ratedQuestions {
		question := findQuestion(questions, label)
		rated := RatedQuestion{Label: label}
		if n, ok := finiteNumber(question.Get("rating")); ok {
			rated.Rating = &n
		}
		if comment := question.Get("comment"); comment.Type == gjson.String {
			rated.Comment = strings.TrimSpace(comment.Str)
		}
		if !question.Exists() && label == LikelyToRecommend {
			rated.Comment = fields.OverallComment
		}
		fields.Ratings = append(fields.Ratings, rated)
	}

	return fields
}

func firstMatch(payload gjson.Result, probes []probe) (string, string) {
	for _, p := range probes {
		if v := p.pick(payload); v != "" {
			return v, p.name
		}
	}
	return "", ""
}

func text(path string) func(gjson.Result) string {
	return func(payload gjson.Result) string {
		return scalarText(payload.Get(path))
	}
}

func percent(path string) func(gjson.Result) string {
	return func(payload gjson.Result) string {
		n, ok := finiteNumber(payload.Get(path))
		if !ok {
			return ""
		}
		return formatNumber(n) + "%"
	}
}

// person is the top-level contact object, or customer when there is no contact.
func person(payload gjson.Result) gjson.Result {
	if contact := payload.Get("contact"); contact.IsObject() {
		return contact
	}
	return payload.Get("customer")
}

func personText(key string) func(gjson.Result) string {
	return func(payload gjson.Result) string {
		return scalarText(person(payload).Get(key))
	}
}

func personFullName(payload gjson.Result) string {
	p := person(payload)
	var parts []string
	for _, key := range []string{"first_name", "last_name"} {
		if part := scalarText(p.Get(key)); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func answers(payload gjson.Result) []gjson.Result {
	for _, key := range answerArrayKeys {
		if list := payload.Get(key); list.IsArray() {
			if entries := list.Array(); len(entries) > 0 {
				return entries
			}
		}
	}
	return nil
}

func answerLabel(entry gjson.Result) string {
	for _, key := range answerLabelKeys {
		if label := entry.Get(key); label.Type == gjson.String && label.Str != "" {
			return strings.ToLower(label.Str)
		}
	}
	return ""
}

func answerValue(entry gjson.Result) gjson.Result {
	for _, key := range answerValueKeys {
		if value := entry.Get(key); value.Exists() && value.Type != gjson.Null {
			return value
		}
	}
	return gjson.Result{}
}

func answerScore(payload gjson.Result) string {
	for _, entry := range answers(payload) {
		if !containsAny(answerLabel(entry), scoreLabels) {
			continue
		}
		if n, ok := finiteNumber(answerValue(entry)); ok {
			return formatNumber(n)
		}
	}
	return ""
}

func answerComment(payload gjson.Result) string {
	for _, entry := range answers(payload) {
		if !containsAny(answerLabel(entry), commentLabels) {
			continue
		}
		if value := answerValue(entry); value.Type == gjson.String {
			if comment := strings.TrimSpace(value.Str); comment != "" {
				return comment
			}
		}
	}
	return ""
}

func findQuestion(questions gjson.Result, name string) gjson.Result {
	if !questions.IsArray() {
		return gjson.Result{}
	}
	for _, question := range questions.Array() {
		if candidate := question.Get("name"); candidate.Type == gjson.String && strings.EqualFold(candidate.Str, name) {
			return question
		}
	}
	return gjson.Result{}
}

func scalarText(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return strings.TrimSpace(value.Str)
	case gjson.Number:
		return value.Raw
	}
	return ""
}

// finiteNumber accepts JSON numbers and numeric strings.
func finiteNumber(value gjson.Result) (float64, bool) {
	var n float64
	switch value.Type {
	case gjson.Number:
		n = value.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
