package curator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// 搭建最小候选目录：两个营地，一个待策展，一个仅一张图（跳过）
func setupTree(t *testing.T) *Curator {
	t.Helper()
	dir := t.TempDir()
	candidates := filepath.Join(dir, "candidates")
	state := ScrapeState{Camps: map[string]*CampState{
		"Dust Bowl":     {ImagesDownloaded: 1, LastProcessed: "2026-08-01T00:00:00Z"},
		"Camp Ephemera": {ImagesDownloaded: 3, LastProcessed: "2026-08-01T00:00:00Z"},
	}}
	statePath := filepath.Join(dir, "download_state.json")
	b, _ := json.Marshal(state)
	if err := os.WriteFile(statePath, b, 0o644); err != nil {
		t.Fatal(err)
	}
	campDir := filepath.Join(candidates, "Camp Ephemera")
	if err := os.MkdirAll(campDir, 0o755); err != nil {
		t.Fatal(err)
	}
	meta := Metadata{Images: []ImageMeta{
		{Filename: "001.jpg", SourceURL: "https://example.org/a.jpg"},
		{Filename: "002.jpg", SourceURL: "https://example.org/b.jpg"},
		{Filename: "003.jpg", SourceURL: "https://example.org/c.jpg", CurationResult: "keep"},
	}}
	mb, _ := json.Marshal(meta)
	if err := os.WriteFile(filepath.Join(campDir, "metadata.json"), mb, 0o644); err != nil {
		t.Fatal(err)
	}
	return New(candidates, statePath)
}

func TestNextCampReturnsPendingImages(t *testing.T) {
	c := setupTree(t)
	name, pending, err := c.NextCamp()
	if err != nil {
		t.Fatal(err)
	}
	if name != "Camp Ephemera" {
		t.Fatalf("next camp = %q", name)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %+v, want the two unjudged images", pending)
	}
	for _, img := range pending {
		if img.CurationResult != "" {
			t.Errorf("already-curated image %s returned as pending", img.Filename)
		}
	}
}

func TestCurateAdvancesState(t *testing.T) {
	c := setupTree(t)
	err := c.Curate("Camp Ephemera", map[string]string{
		"001.jpg": "keep",
		"002.jpg": "reject",
		"zzz.jpg": "keep", // 元数据中不存在，忽略
	})
	if err != nil {
		t.Fatal(err)
	}
	meta, err := c.loadMetadata("Camp Ephemera")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Images[0].CurationResult != "keep" || meta.Images[1].CurationResult != "reject" {
		t.Errorf("verdicts not applied: %+v", meta.Images)
	}
	// 全部图片已有结论，且 last_curated 晚于 last_processed：不再出现在队列里
	name, _, err := c.NextCamp()
	if err != nil {
		t.Fatal(err)
	}
	if name != "" {
		t.Errorf("next camp after full curation = %q, want none", name)
	}
}

func TestNextCampSkipsSingleImageCamps(t *testing.T) {
	c := setupTree(t)
	// Dust Bowl 仅一张图，即使没有 metadata 也不应报错，直接跳过
	name, _, err := c.NextCamp()
	if err != nil {
		t.Fatal(err)
	}
	if name == "Dust Bowl" {
		t.Error("single-image camp must be skipped")
	}
}

func TestCurateUnknownCamp(t *testing.T) {
	c := setupTree(t)
	if err := c.Curate("Nope", map[string]string{"a.jpg": "keep"}); err == nil {
		t.Fatal("curating a camp without metadata must fail")
	}
}
