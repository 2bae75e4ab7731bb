package domain

import (
	"fmt"
	"time"
)

// MockSocialReports returns the fixed mock feed for a disaster, used whenever
// no live social provider can serve. IDs, ordering, texts, and relative
// timestamps are stable; downstream code and tests depend on the exact
// values, not just the shape. The texts are written so the content
// classifiers produce one post per priority tier, in the order
// high, medium, critical, medium, low.
func MockSocialReports(disasterID string) []RawSocialPost {
	now := clock.Now()

	return []RawSocialPost{
		{
			ID:        fmt.Sprintf("mock_%s_1", disasterID),
			Text:      "#floodrelief Need food and water in Lower East Side, NYC.",
			AuthorID:  "citizen1",
			Username:  "citizen1",
			Name:      "Local Resident",
			CreatedAt: now,
		},
		{
			ID:        fmt.Sprintf("mock_%s_2", disasterID),
			Text:      "Red Cross shelter open at 123 Main St. Providing food, water, and medical supplies. #disasterresponse",
			AuthorID:  "redcross_nyc",
			Username:  "redcross_nyc",
			Name:      "Red Cross NYC",
			CreatedAt: now.Add(-time.Hour),
		},
		{
			ID:        fmt.Sprintf("mock_%s_3", disasterID),
			Text:      "SOS! Trapped in building on 5th Ave. Need immediate rescue. #emergency #flood",
			AuthorID:  "trapped_citizen",
			Username:  "trapped_citizen",
			Name:      "Emergency Call",
			CreatedAt: now.Add(-30 * time.Minute),
		},
		{
			ID:        fmt.Sprintf("mock_%s_4", disasterID),
			Text:      "Volunteer coordinators on site at Central Park with supply distribution and medical support. #volunteer",
			AuthorID:  "volunteer_coord",
			Username:  "volunteer_coord",
			Name:      "Volunteer Coordinator",
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        fmt.Sprintf("mock_%s_5", disasterID),
			Text:      "Power restored in Midtown area. Traffic lights working again. #recovery",
			AuthorID:  "nyc_utilities",
			Username:  "nyc_utilities",
			Name:      "NYC Utilities",
			CreatedAt: now.Add(-90 * time.Minute),
		},
	}
}
