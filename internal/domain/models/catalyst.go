package models

import "time"

// NewsItem is a scored headline.
type NewsItem struct {
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	Source    string    `json:"source,omitempty"`
	Published time.Time `json:"published,omitempty"`
	Relevance float64   `json:"relevance"`
}

// MacroEvent is an economic calendar entry.
type MacroEvent struct {
	Title      string    `json:"title"`
	Country    string    `json:"country,omitempty"`
	Time       time.Time `json:"time,omitempty"`
	Importance int       `json:"importance"`
	Actual     string    `json:"actual,omitempty"`
	Forecast   string    `json:"forecast,omitempty"`
	Previous   string    `json:"previous,omitempty"`
}
