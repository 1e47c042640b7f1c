package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAnalyze_Balanced(t *testing.T) {
	norms := DefaultRecommendations()
	recs := Analyze(norms.Portions, norms)
	require.Equal(t, []string{RecBalanced}, recs)
}

func TestAnalyze_AllRulesFire(t *testing.T) {
	norms := DefaultRecommendations()
	recs := Analyze(Portions{Protein: 1, Fats: 10}, norms)
	require.Equal(t, []string{RecProteinLow, RecVegetables, RecFatsHigh, RecFruits}, recs)
}

func TestAnalyze_ProteinHigh(t *testing.T) {
	norms := DefaultRecommendations()
	totals := norms.Portions
	totals.Protein = 7 // 140%
	require.Equal(t, []string{RecProteinHigh}, Analyze(totals, norms))
}

func TestAnalyze_DairyAndGrainsIgnored(t *testing.T) {
	norms := DefaultRecommendations()
	totals := norms.Portions
	totals.Dairy = 0
	totals.Grains = 100
	require.Equal(t, []string{RecBalanced}, Analyze(totals, norms))
}

func TestAnalyze_ZeroNormsSkipPercentChecks(t *testing.T) {
	norms := NutritionRecommendations{}
	recs := Analyze(Portions{Protein: 3, Fats: 9}, norms)
	require.Equal(t, []string{RecBalanced}, recs)

	norms.Protein = -2
	require.Equal(t, []string{RecBalanced}, Analyze(Portions{}, norms))
}

func TestAnalyze_NeverEmptyAndIdempotent(t *testing.T) {
	norms := DefaultRecommendations()
	for p := 0; p <= 8; p++ {
		for f := 0; f <= 6; f++ {
			totals := Portions{Protein: p, Vegetables: p, Fats: f, Fruits: f}
			first := Analyze(totals, norms)
			require.NotEmpty(t, first)
			require.Equal(t, first, Analyze(totals, norms))
		}
	}
}

func TestNutritionRecommendations_Update(t *testing.T) {
	r := DefaultRecommendations()
	r.Update(map[NutrientKind]int{Fats: 1, Grains: 9})
	require.Equal(t, 1, r.Daily(Fats))
	require.Equal(t, 9, r.Daily(Grains))
	require.Equal(t, DefaultProteinDaily, r.Daily(Protein))
}

func TestNewDiaryEntry_FixedZone(t *testing.T) {
	utc := time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC)
	e := NewDiaryEntry(7, "Ужин", Portions{Protein: 1}, []string{"a.jpg"}, utc)
	require.Equal(t, "2026-10-19", e.Date)
	require.Equal(t, "01:30", e.LocalClock())
	require.Equal(t, []string{"a.jpg"}, e.ImagePaths)
	require.True(t, IsMealSlot("Ужин"))
	require.False(t, IsMealSlot("ужин"))
}
