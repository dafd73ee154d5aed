package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/domain"
)

func TestResolveDisplayName(t *testing.T) {
	t.Run("static table wins", func(t *testing.T) {
		assert.Equal(t, "Ivan on Tech", domain.ResolveDisplayName("IvanOnTech", "ivan official"))
	})

	t.Run("self-reported name with entities decoded", func(t *testing.T) {
		assert.Equal(t, "Charts & Coffee", domain.ResolveDisplayName("chartscoffee", "Charts &amp; Coffee"))
	})

	t.Run("handle as last resort", func(t *testing.T) {
		assert.Equal(t, "coingecko", domain.ResolveDisplayName("coingecko", "  "))
	})
}

func TestDeriveChannels(t *testing.T) {
	records := []domain.VideoRecord{
		{ChannelHandle: "IvanOnTech", ChannelName: "ivan"},
		{ChannelHandle: "IvanOnTech", ChannelName: "ivan"},
		{ChannelHandle: "cryptomaniac99"},
		{ChannelHandle: "chartscoffee", ChannelName: "Charts &amp; Coffee"},
	}

	channels := domain.DeriveChannels(records)
	require.Len(t, channels, 3)

	// Sorted by display name.
	assert.Equal(t, []domain.ChannelInfo{
		{Handle: "chartscoffee", DisplayName: "Charts & Coffee"},
		{Handle: "IvanOnTech", DisplayName: "Ivan on Tech"},
		{Handle: "cryptomaniac99", DisplayName: "cryptomaniac99"},
	}, channels)
}

func TestDeriveChannels_IgnoresBlankHandles(t *testing.T) {
	channels := domain.DeriveChannels([]domain.VideoRecord{{ChannelName: "orphan"}})
	assert.Empty(t, channels)
}
