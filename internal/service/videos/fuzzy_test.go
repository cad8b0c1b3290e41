package videos

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GintGld/video-baker/internal/models"
)

func TestFilterRank(t *testing.T) {
	testCases := []struct {
		desc   string
		source []models.Video
		filter models.VideoFilter
		expect []uint64
	}{
		{
			desc: "title ordering",
			source: []models.Video{
				{Index: 0, Title: "apple juice"},
				{Index: 1, Title: "apple"},
				{Index: 2, Title: "a a"},
			},
			filter: models.VideoFilter{Title: "aaa"},
			expect: []uint64{2, 1, 0},
		},
		{
			desc: "accents and case are ignored",
			source: []models.Video{
				{Index: 0, Title: "Something else"},
				{Index: 1, Title: "CAFÉ"},
			},
			filter: models.VideoFilter{Title: "cafe"},
			expect: []uint64{1, 0},
		},
		{
			desc: "best of title and description",
			source: []models.Video{
				{Index: 0, Title: "zzzzzz", Description: "cats"},
				{Index: 1, Title: "cat", Description: "zzzzzz"},
				{Index: 2, Title: "dog", Description: "dog"},
			},
			filter: models.VideoFilter{Title: "cat", Description: "cat"},
			expect: []uint64{1, 0, 2},
		},
		{
			desc: "verified only",
			source: []models.Video{
				{Index: 0, Title: "a", Verified: false},
				{Index: 1, Title: "a", Verified: true},
			},
			filter: models.VideoFilter{Title: "a", VerifiedOnly: true},
			expect: []uint64{1},
		},
		{
			desc: "ties keep registry order",
			source: []models.Video{
				{Index: 0, Title: "ab"},
				{Index: 1, Title: "ba"},
				{Index: 2, Title: "ab"},
			},
			filter: models.VideoFilter{Title: "ab"},
			expect: []uint64{0, 2, 1},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			res := filterRank(tC.source, tC.filter)

			got := make([]uint64, 0, len(res))
			for _, r := range res {
				got = append(got, r.video.Index)
			}

			assert.Equal(t, tC.expect, got)
		})
	}
}

func TestStringTransform(t *testing.T) {
	assert.Equal(t, "creme brulee", stringTransform("Crème Brûlée"))
	assert.Equal(t, "", stringTransform(""))
}
