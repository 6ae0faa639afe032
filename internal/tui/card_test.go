package tui

import (
	"strings"
	"testing"

	"github.com/slabwatch/slabwatch/internal/model"
)

func testStyles() Styles {
	return NewStyles(DefaultSkin())
}

func sampleCard() model.SavedResult {
	return model.SavedResult{
		CardName: "Charizard VMAX",
		Region:   "AU",
		LastResult: &model.PriceReport{
			Avg: model.Averages{
				{Grade: "raw", Value: 40.5},
				{Grade: "PSA", Value: 300},
			},
			Prices: map[string][]float64{"raw": {40.5}},
		},
		LastImage:   "http://img/chz.jpg",
		LastUpdated: "2026-08-20T10:00:00Z",
		Confirmed:   true,
	}
}

func TestRenderCardShowsMetadata(t *testing.T) {
	out := RenderCard(sampleCard(), testStyles(), 80, false)

	for _, want := range []string{"Charizard VMAX", "[AU]", "http://img/chz.jpg", "2026-08-20T10:00:00Z", "Yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("card output missing %q", want)
		}
	}
}

func TestRenderCardIsPure(t *testing.T) {
	card := sampleCard()
	st := testStyles()

	first := RenderCard(card, st, 80, true)
	second := RenderCard(card, st, 80, true)
	if first != second {
		t.Error("same inputs rendered differently")
	}
}

func TestRenderCardFallbacks(t *testing.T) {
	card := model.SavedResult{CardName: "Pikachu", Region: "US"}
	out := RenderCard(card, testStyles(), 80, false)

	if !strings.Contains(out, model.FallbackImagePath) {
		t.Error("missing image fallback path")
	}
	if !strings.Contains(out, "N/A") {
		t.Error("missing N/A for absent update stamp")
	}
	if !strings.Contains(out, "No") {
		t.Error("missing unconfirmed marker")
	}
	if !strings.Contains(out, "no price data yet") {
		t.Error("missing chart placeholder for nil report")
	}
}

func TestRenderCardExpiredTag(t *testing.T) {
	card := sampleCard()
	card.Expired = true
	out := RenderCard(card, testStyles(), 80, false)

	if !strings.Contains(out, "stale") {
		t.Error("expired card not tagged stale")
	}
}

func TestRenderCardChartGradeOrder(t *testing.T) {
	card := sampleCard()
	out := RenderCard(card, testStyles(), 100, false)

	rawIdx := strings.Index(out, "raw 40.50")
	psaIdx := strings.Index(out, "PSA 300.00")
	if rawIdx == -1 || psaIdx == -1 {
		t.Fatalf("legend entries missing in output")
	}
	if rawIdx > psaIdx {
		t.Error("legend order does not follow report order")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("averyveryverylongurl", 10); got != "averyve..." {
		t.Errorf("truncate long = %q", got)
	}
}
