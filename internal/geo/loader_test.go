package geo

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleOutlines = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"fid":7},"geometry":{"type":"LineString","coordinates":[[-119.221,40.781],[-119.221,40.783],[-119.219,40.783],[-119.219,40.781],[-119.221,40.781]]}},
{"type":"Feature","properties":{"fid":8},"geometry":{"type":"LineString","coordinates":[[-119.215,40.784],[-119.215,40.786],[-119.213,40.786],[-119.213,40.784]]}},
{"type":"Feature","properties":{"fid":9},"geometry":{"type":"Point","coordinates":[-119.2,40.78]}}
]}`

const sampleLabels = `{"7":"Camp Ephemera","8":"Dust Bowl","oops":"Broken Key"}`

func writeTempData(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	outline := filepath.Join(dir, "camp_outlines.geojson")
	labels := filepath.Join(dir, "camp_labels.json")
	if err := os.WriteFile(outline, []byte(sampleOutlines), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(labels, []byte(sampleLabels), 0o644); err != nil {
		t.Fatal(err)
	}
	return outline, labels
}

func TestLoadSnapshot(t *testing.T) {
	outline, labels := writeTempData(t)
	snap, err := LoadSnapshot(outline, labels)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Features) != 2 {
		t.Fatalf("loaded %d features, want 2 (Point geometry skipped)", len(snap.Features))
	}
	if snap.Features[0].FID != 7 || snap.Features[1].FID != 8 {
		t.Errorf("load order not preserved: %d, %d", snap.Features[0].FID, snap.Features[1].FID)
	}
	if got := snap.Features[0].BBox; got != [4]float64{-119.221, 40.781, -119.219, 40.783} {
		t.Errorf("bbox = %v", got)
	}
	if len(snap.Labels) != 2 || snap.Labels[7] != "Camp Ephemera" {
		t.Errorf("labels = %v, want 2 entries with typed int keys", snap.Labels)
	}
	// 未闭合的 FID 8 照常加载，由命中阶段排除
	if snap.Features[1].Closed() {
		t.Error("FID 8 should load as an open line")
	}
}

func TestLoadSnapshotMissingLabels(t *testing.T) {
	outline, _ := writeTempData(t)
	snap, err := LoadSnapshot(outline, filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing labels must degrade, got error: %v", err)
	}
	if len(snap.Labels) != 0 {
		t.Errorf("labels = %v, want empty", snap.Labels)
	}
}

func TestLoadSnapshotMissingOutlines(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.geojson"), ""); err == nil {
		t.Fatal("missing outline file must be reported")
	}
}

func TestFindUnclosedAndCloseFeature(t *testing.T) {
	outline, labels := writeTempData(t)
	snap, err := LoadSnapshot(outline, labels)
	if err != nil {
		t.Fatal(err)
	}
	un := FindUnclosed(snap.Features)
	if len(un) != 1 || un[0].FID != 8 {
		t.Fatalf("unclosed report = %+v, want exactly FID 8", un)
	}
	if un[0].Coords != 4 {
		t.Errorf("reported coord count = %d, want 4", un[0].Coords)
	}

	f := &snap.Features[1]
	if !CloseFeature(f) {
		t.Fatal("CloseFeature should repair FID 8")
	}
	if !f.Closed() {
		t.Error("feature still open after repair")
	}
	if len(f.Vertices) != 5 {
		t.Errorf("vertex count after repair = %d, want 5", len(f.Vertices))
	}
	// 已闭合的不再重复补点
	if CloseFeature(f) {
		t.Error("CloseFeature repaired an already-closed feature")
	}
	if CloseFeature(&snap.Features[0]) {
		t.Error("CloseFeature touched the closed FID 7")
	}
}
