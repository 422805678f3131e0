package wiki

import (
	"testing"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Max Verstappen", "Max_Verstappen"},
		{"extra spaces", "  Lewis   Hamilton ", "Lewis_Hamilton"},
		{"decomposed accent", "Sergio Pérez", "Sergio_Pérez"},
		{"single word", "Ferrari", "Ferrari"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageTitle(tt.in))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "kimi raikkonen", Fold("Kimi Räikkönen"))
	assert.Equal(t, "nico hulkenberg", Fold("Nico  HÜLKENBERG"))
	assert.Equal(t, Fold("Sergio Pérez"), Fold("sergio perez"))
}

func TestRankPages(t *testing.T) {
	pages := []contract.WikiPage{
		{PageID: 1, Title: "Energy drink", Thumbnail: "https://upload/can.png"},
		{PageID: 2, Title: "Red Bull Racing", Thumbnail: "https://upload/rbr.png"},
		{PageID: 3, Title: "Red Bull", Thumbnail: ""},
		{PageID: 4, Title: "Scuderia Toro Rosso (Red Bull junior)", Thumbnail: "https://upload/str.png"},
	}

	ranked := RankPages("Red Bull", pages)
	ids := make([]int64, len(ranked))
	for i, p := range ranked {
		ids[i] = p.PageID
	}
	assert.Equal(t, []int64{2, 4, 1}, ids)
}

func TestRankPagesEmpty(t *testing.T) {
	assert.Empty(t, RankPages("Ferrari", nil))
	assert.Empty(t, RankPages("Ferrari", []contract.WikiPage{{PageID: 1, Title: "Ferrari"}}))
}

func TestMatchScoreOrdering(t *testing.T) {
	q := Fold("Williams")
	exact := matchScore(q, Fold("Williams"))
	prefix := matchScore(q, Fold("Williams Racing"))
	contains := matchScore(q, Fold("Frank Williams Racing Cars"))
	fuzzyHit := matchScore(q, Fold("Wil liams"))
	miss := matchScore(q, Fold("Haas"))

	assert.Less(t, exact, prefix)
	assert.Less(t, prefix, contains)
	assert.Less(t, contains, fuzzyHit)
	assert.Less(t, fuzzyHit, miss)
}
