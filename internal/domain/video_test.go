package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/domain"
)

func TestParseDayDocument_SingleObject(t *testing.T) {
	doc := []byte(`{
		"channel_id": "UC123",
		"channel_name": "Coin Bureau",
		"channel_handle": "coinbureau",
		"video_id": "abc123",
		"title": "Market Update",
		"published_at": "2026-02-06T08:30:00Z",
		"sort_date": "2026-02-06",
		"url": "https://www.youtube.com/watch?v=abc123",
		"summary_hu": "Összefoglaló",
		"summary_en": "Summary",
		"crypto_sentiment": "Bullish",
		"sentiment_score": 82,
		"key_points_hu": ["egy"],
		"key_points_en": ["one"],
		"main_topics": ["BTC"]
	}`)

	records, err := domain.ParseDayDocument(doc, "2026-02-06", "coinbureau")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "coinbureau", rec.ChannelHandle)
	assert.Equal(t, "abc123", rec.VideoID)
	assert.Equal(t, domain.SentimentBullish, rec.Sentiment)
	assert.Equal(t, 82, rec.Score)
	assert.Equal(t, "2026-02-06", rec.SortDate)
	assert.Equal(t, time.Date(2026, 2, 6, 8, 30, 0, 0, time.UTC), rec.PublishedAt)
}

func TestParseDayDocument_Array(t *testing.T) {
	doc := []byte(`[
		{"video_id": "v1", "summary_en": "one", "sentiment_score": 60},
		{"video_id": "v2", "summary_en": "two", "sentiment_score": 40}
	]`)

	records, err := domain.ParseDayDocument(doc, "2026-02-06", "coinbureau")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseDayDocument_DropsUnsummarized(t *testing.T) {
	doc := []byte(`[
		{"video_id": "v1", "title": "well formed but unprocessed", "summary_hu": "  ", "summary_en": ""},
		{"video_id": "v2", "summary_en": "processed"}
	]`)

	records, err := domain.ParseDayDocument(doc, "2026-02-06", "coinbureau")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "v2", records[0].VideoID)
}

func TestParseDayDocument_RepairsBrokenURL(t *testing.T) {
	doc := []byte(`{
		"video_id": "V123",
		"summary_en": "s",
		"url": "{'kind': 'youtube#video', 'etag': 'x'}"
	}`)

	records, err := domain.ParseDayDocument(doc, "2026-02-06", "coinbureau")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=V123", records[0].URL)
}

func TestParseDayDocument_ScoreDefaultsAndClamping(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want int
	}{
		{"missing", `{"video_id":"v","summary_en":"s"}`, 50},
		{"above range", `{"video_id":"v","summary_en":"s","sentiment_score":140}`, 100},
		{"below range", `{"video_id":"v","summary_en":"s","sentiment_score":-3}`, 0},
		{"quoted number", `{"video_id":"v","summary_en":"s","sentiment_score":"75"}`, 75},
		{"garbage", `{"video_id":"v","summary_en":"s","sentiment_score":"n/a"}`, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := domain.ParseDayDocument([]byte(tc.doc), "2026-02-06", "ch")
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tc.want, records[0].Score)
		})
	}
}

func TestParseDayDocument_SentimentDefaultsToNeutral(t *testing.T) {
	for _, doc := range []string{
		`{"video_id":"v","summary_en":"s"}`,
		`{"video_id":"v","summary_en":"s","crypto_sentiment":"Moonish"}`,
	} {
		records, err := domain.ParseDayDocument([]byte(doc), "2026-02-06", "ch")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.SentimentNeutral, records[0].Sentiment)
	}
}

func TestParseDayDocument_SortDate(t *testing.T) {
	t.Run("upstream field wins", func(t *testing.T) {
		doc := `{"video_id":"v","summary_en":"s","sort_date":"2026-02-07"}`
		records, err := domain.ParseDayDocument([]byte(doc), "2026-02-06", "ch")
		require.NoError(t, err)
		assert.Equal(t, "2026-02-07", records[0].SortDate)
	})

	t.Run("legacy sort_data spelling", func(t *testing.T) {
		doc := `{"video_id":"v","summary_en":"s","sort_data":"2026-02-07"}`
		records, err := domain.ParseDayDocument([]byte(doc), "2026-02-06", "ch")
		require.NoError(t, err)
		assert.Equal(t, "2026-02-07", records[0].SortDate)
	})

	t.Run("fetch date fallback", func(t *testing.T) {
		doc := `{"video_id":"v","summary_en":"s"}`
		records, err := domain.ParseDayDocument([]byte(doc), "2026-02-06", "ch")
		require.NoError(t, err)
		assert.Equal(t, "2026-02-06", records[0].SortDate)
	})
}

func TestParseDayDocument_PublishedAtFallsBackToSortDate(t *testing.T) {
	doc := `{"video_id":"v","summary_en":"s","sort_date":"2026-02-05","published_at":"not a timestamp"}`
	records, err := domain.ParseDayDocument([]byte(doc), "2026-02-06", "ch")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), records[0].PublishedAt)
}

func TestParseDayDocument_ChannelHandleFromFetchPath(t *testing.T) {
	doc := `{"video_id":"v","summary_en":"s"}`
	records, err := domain.ParseDayDocument([]byte(doc), "2026-02-06", "coingecko")
	require.NoError(t, err)
	assert.Equal(t, "coingecko", records[0].ChannelHandle)
}

func TestParseDayDocument_Malformed(t *testing.T) {
	_, err := domain.ParseDayDocument([]byte(`<html>rate limited</html>`), "2026-02-06", "ch")
	assert.Error(t, err)
}

func TestSortByPublishedDesc(t *testing.T) {
	records := []domain.VideoRecord{
		{VideoID: "old", PublishedAt: time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)},
		{VideoID: "new", PublishedAt: time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)},
		{VideoID: "mid", PublishedAt: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	domain.SortByPublishedDesc(records)

	assert.Equal(t, "new", records[0].VideoID)
	assert.Equal(t, "mid", records[1].VideoID)
	assert.Equal(t, "old", records[2].VideoID)
}
