package domain

import "encoding/json"

// Review binds a review's text and rating to the sentiment derived from the
// rating. The zero value is not meaningful; build one with NewReview.
type Review struct {
	text      string
	rating    float64
	sentiment Sentiment
}

func NewReview(text string, rating float64) Review {
	return Review{text: text, rating: rating, sentiment: Classify(rating)}
}

func (r Review) Text() string         { return r.text }
func (r Review) Rating() float64      { return r.rating }
func (r Review) Sentiment() Sentiment { return r.sentiment }

type reviewJSON struct {
	Text      string    `json:"text"`
	Rating    float64   `json:"rating"`
	Sentiment Sentiment `json:"sentiment"`
}

func (r Review) MarshalJSON() ([]byte, error) {
	return json.Marshal(reviewJSON{Text: r.text, Rating: r.rating, Sentiment: r.sentiment})
}

// UnmarshalJSON rebuilds the review from text and rating; a sentiment in the
// payload is ignored.
func (r *Review) UnmarshalJSON(b []byte) error {
	var in reviewJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*r = NewReview(in.Text, in.Rating)
	return nil
}
