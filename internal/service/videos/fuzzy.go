package videos

import (
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/GintGld/video-baker/internal/models"
)

var (
	normalizeTransformer transform.Transformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	transformer                                = transform.Chain(normalizeTransformer, unicodeFoldTransformer{})
)

type videoRank struct {
	video models.Video
	rank  int
}

func rankCmp(vr1, vr2 videoRank) int {
	if vr1.rank != vr2.rank {
		return vr1.rank - vr2.rank
	}
	// keep registry order on ties
	if vr1.video.Index < vr2.video.Index {
		return -1
	}
	if vr1.video.Index > vr2.video.Index {
		return 1
	}
	return 0
}

// filterRank returns videos with rank.
// The returned slice is sorted by rank ascending order.
func filterRank(lib []models.Video, filter models.VideoFilter) []videoRank {
	out := make([]videoRank, 0, len(lib))

	title := stringTransform(filter.Title)
	description := stringTransform(filter.Description)

	for _, video := range lib {
		if filter.VerifiedOnly && !video.Verified {
			continue
		}

		rank := -1
		if title != "" {
			rank = fuzzy.LevenshteinDistance(stringTransform(video.Title), title)
		}
		if description != "" {
			d := fuzzy.LevenshteinDistance(stringTransform(video.Description), description)
			if rank < 0 || d < rank {
				rank = d
			}
		}

		out = append(out, videoRank{
			video: video,
			rank:  rank,
		})
	}

	slices.SortStableFunc(out, rankCmp)

	return out
}

func stringTransform(s string) (transformed string) {
	var err error
	transformed, _, err = transform.String(transformer, s)
	if err != nil {
		transformed = s
	}

	return
}

type unicodeFoldTransformer struct{ transform.NopResetter }

func (unicodeFoldTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && !atEOF && !utf8.FullRune(src[nSrc:]) {
			err = transform.ErrShortSrc
			break
		}
		r = unicode.ToLower(r)
		if utf8.RuneLen(r) > len(dst[nDst:]) {
			err = transform.ErrShortDst
			break
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, err
}
