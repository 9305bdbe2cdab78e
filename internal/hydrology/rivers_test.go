package hydrology

import "testing"

func TestExtractRiversFindsMouthAndTracesUpstream(t *testing.T) {
	// 0 -> 1 -> 2(water); flux rises toward the mouth.
	dir := []int{1, 2, noFlow}
	flux := []float64{50, 400, 0}
	isWater := []bool{false, false, true}

	rivers := extractRivers(dir, flux, isWater, 300)
	if len(rivers) != 1 {
		t.Fatalf("expected 1 river, got %d", len(rivers))
	}
	r := rivers[0]
	if r.Mouth != 1 {
		t.Fatalf("mouth = %d, want 1", r.Mouth)
	}
	if len(r.Cells) != 1 || r.Cells[0] != 1 {
		t.Fatalf("expected the trace to stop before cell 0 (flux below threshold), got %v", r.Cells)
	}
}

func TestExtractRiversNoMouthBelowThreshold(t *testing.T) {
	dir := []int{1, noFlow}
	flux := []float64{50, 60}
	isWater := []bool{false, true}

	rivers := extractRivers(dir, flux, isWater, 300)
	if len(rivers) != 0 {
		t.Fatalf("expected no rivers below threshold, got %d", len(rivers))
	}
}

func TestExtractRiversSingleMouthGivesOneRiver(t *testing.T) {
	// two branches (0, 3) both flow into 1, which flows to water at 2.
	// There is only one mouth (1), so one river; its trace follows the
	// higher-flux branch (0) and cell 3 is not traced.
	dir := []int{1, 2, noFlow, 1}
	flux := []float64{500, 900, 0, 400}
	isWater := []bool{false, false, true, false}

	rivers := extractRivers(dir, flux, isWater, 300)
	if len(rivers) != 1 {
		t.Fatalf("expected 1 river reaching the single mouth, got %d", len(rivers))
	}
}
