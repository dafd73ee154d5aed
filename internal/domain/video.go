package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Sentiment is the upstream summarizer's call on a video.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

const (
	// DefaultSentimentScore is used when the upstream file carries no score.
	DefaultSentimentScore = 50

	watchURLPrefix = "https://www.youtube.com/watch?v="

	// brokenURLMarker shows up when the upstream producer serialized a
	// response object into the url field instead of the link itself.
	brokenURLMarker = "{'kind'"
)

// DayFormat is the calendar bucket layout used throughout the store.
const DayFormat = "2006-01-02"

// VideoRecord is one AI-summarized video as served by the content store.
// Records are immutable after normalization.
type VideoRecord struct {
	ChannelID     string    `json:"channel_id"`
	ChannelName   string    `json:"channel_name"`
	ChannelHandle string    `json:"channel_handle"`
	VideoID       string    `json:"video_id"`
	Title         string    `json:"title"`
	PublishedAt   time.Time `json:"published_at"`
	SortDate      string    `json:"sort_date"`
	URL           string    `json:"url"`
	Transcript    string    `json:"transcript,omitempty"`
	SummaryHU     string    `json:"summary_hu"`
	SummaryEN     string    `json:"summary_en"`
	Sentiment     Sentiment `json:"crypto_sentiment"`
	Score         int       `json:"sentiment_score"`
	KeyPointsHU   []string  `json:"key_points_hu"`
	KeyPointsEN   []string  `json:"key_points_en"`
	MainTopics    []string  `json:"main_topics"`
}

// Key identifies a record for dedupe purposes.
func (v VideoRecord) Key() string {
	return v.ChannelHandle + "/" + v.VideoID
}

// rawVideo mirrors the store's wire shape before normalization. The sort
// bucket appears as sort_date in current files and sort_data in legacy ones.
type rawVideo struct {
	ChannelID     string          `json:"channel_id"`
	ChannelName   string          `json:"channel_name"`
	ChannelHandle string          `json:"channel_handle"`
	VideoID       string          `json:"video_id"`
	Title         string          `json:"title"`
	PublishedAt   string          `json:"published_at"`
	SortDate      string          `json:"sort_date"`
	SortData      string          `json:"sort_data"`
	URL           string          `json:"url"`
	Transcript    string          `json:"transcript"`
	SummaryHU     string          `json:"summary_hu"`
	SummaryEN     string          `json:"summary_en"`
	Sentiment     string          `json:"crypto_sentiment"`
	Score         json.RawMessage `json:"sentiment_score"`
	KeyPointsHU   []string        `json:"key_points_hu"`
	KeyPointsEN   []string        `json:"key_points_en"`
	MainTopics    []string        `json:"main_topics"`
}

// ParseDayDocument decodes one per-channel-per-day JSON document, which may
// hold a single object or an array of objects, and normalizes every element
// that has at least one non-blank summary. Elements without any summary are
// considered not yet processed upstream and are dropped.
func ParseDayDocument(data []byte, fetchDate, channelHandle string) ([]VideoRecord, error) {
	var raws []rawVideo
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
	} else {
		var one rawVideo
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, err
		}
		raws = []rawVideo{one}
	}

	records := make([]VideoRecord, 0, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw.SummaryHU) == "" && strings.TrimSpace(raw.SummaryEN) == "" {
			continue
		}
		records = append(records, normalize(raw, fetchDate, channelHandle))
	}
	return records, nil
}

func normalize(raw rawVideo, fetchDate, channelHandle string) VideoRecord {
	rec := VideoRecord{
		ChannelID:     raw.ChannelID,
		ChannelName:   raw.ChannelName,
		ChannelHandle: raw.ChannelHandle,
		VideoID:       raw.VideoID,
		Title:         raw.Title,
		URL:           raw.URL,
		Transcript:    raw.Transcript,
		SummaryHU:     raw.SummaryHU,
		SummaryEN:     raw.SummaryEN,
		Sentiment:     parseSentiment(raw.Sentiment),
		Score:         parseScore(raw.Score),
		KeyPointsHU:   raw.KeyPointsHU,
		KeyPointsEN:   raw.KeyPointsEN,
		MainTopics:    raw.MainTopics,
	}

	if rec.ChannelHandle == "" {
		rec.ChannelHandle = channelHandle
	}
	if rec.KeyPointsHU == nil {
		rec.KeyPointsHU = []string{}
	}
	if rec.KeyPointsEN == nil {
		rec.KeyPointsEN = []string{}
	}
	if rec.MainTopics == nil {
		rec.MainTopics = []string{}
	}

	// The upstream bucket wins; the fetch path is the fallback.
	switch {
	case raw.SortDate != "":
		rec.SortDate = raw.SortDate
	case raw.SortData != "":
		rec.SortDate = raw.SortData
	default:
		rec.SortDate = fetchDate
	}

	rec.PublishedAt = parsePublishedAt(raw.PublishedAt, rec.SortDate)

	if rec.URL == "" || strings.Contains(rec.URL, brokenURLMarker) {
		rec.URL = watchURLPrefix + rec.VideoID
	}

	return rec
}

func parseSentiment(s string) Sentiment {
	switch Sentiment(strings.TrimSpace(s)) {
	case SentimentBullish:
		return SentimentBullish
	case SentimentBearish:
		return SentimentBearish
	case SentimentNeutral:
		return SentimentNeutral
	default:
		return SentimentNeutral
	}
}

// parseScore tolerates missing, numeric, and quoted numeric score fields and
// clamps the result into [0, 100].
func parseScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return DefaultSentimentScore
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return DefaultSentimentScore
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &f); err != nil {
			return DefaultSentimentScore
		}
	}
	score := int(f + 0.5)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func parsePublishedAt(value, sortDate string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", DayFormat} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	if ts, err := time.Parse(DayFormat, sortDate); err == nil {
		return ts
	}
	return time.Time{}
}

// SortByPublishedDesc orders records newest first, using the video id as a
// stable tie breaker.
func SortByPublishedDesc(records []VideoRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].PublishedAt.Equal(records[j].PublishedAt) {
			return records[i].VideoID > records[j].VideoID
		}
		return records[i].PublishedAt.After(records[j].PublishedAt)
	})
}
