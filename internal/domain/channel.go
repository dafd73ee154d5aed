package domain

import (
	"html"
	"sort"
	"strings"
)

// ChannelInfo is derived from observed records; channels are never fetched
// directly.
type ChannelInfo struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

// displayNames maps known channel handles to their curated display names.
// Handles missing here fall back to the record's self-reported channel name,
// then to the handle itself.
var displayNames = map[string]string{
	"coinbureau":           "Coin Bureau",
	"CoinBureau":           "Coin Bureau",
	"CTOLARSSON":           "CTO Larsson",
	"DataDispatch":         "Data Dispatch",
	"DavidCarbutt":         "David Carbutt",
	"IvanOnTech":           "Ivan on Tech",
	"TomNashTV":            "Tom Nash TV",
	"elliotrades_official": "EllioTrades",
}

// ResolveDisplayName picks the display name for a handle, decoding any
// HTML-entity-encoded names the upstream producer occasionally emits.
func ResolveDisplayName(handle, selfReported string) string {
	if name, ok := displayNames[handle]; ok {
		return name
	}
	if trimmed := strings.TrimSpace(selfReported); trimmed != "" {
		return html.UnescapeString(trimmed)
	}
	return handle
}

// DeriveChannels builds the distinct channel roster from the loaded record
// set, sorted by display name.
func DeriveChannels(records []VideoRecord) []ChannelInfo {
	seen := make(map[string]string)
	for _, rec := range records {
		if rec.ChannelHandle == "" {
			continue
		}
		if _, ok := seen[rec.ChannelHandle]; !ok || seen[rec.ChannelHandle] == "" {
			seen[rec.ChannelHandle] = rec.ChannelName
		}
	}

	channels := make([]ChannelInfo, 0, len(seen))
	for handle, selfReported := range seen {
		channels = append(channels, ChannelInfo{
			Handle:      handle,
			DisplayName: ResolveDisplayName(handle, selfReported),
		})
	}
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].DisplayName == channels[j].DisplayName {
			return channels[i].Handle < channels[j].Handle
		}
		return channels[i].DisplayName < channels[j].DisplayName
	})
	return channels
}
