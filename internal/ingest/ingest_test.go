package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeYear(t *testing.T, dir string, year int, camps []YearCamp) {
	t.Helper()
	b, err := json.Marshal(camps)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("camps%d.json", year)), b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildHistoryMatchesByName(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2025, []YearCamp{
		{Name: "Camp Ephemera", Year: 2025, UID: "a1", Description: "tea dome"},
		{Name: "Dust Bowl", Year: 2025, UID: "b1"},
	})
	writeYear(t, dir, 2024, []YearCamp{
		{Name: "Camp Ephemera", Year: 2024, UID: "a0"},
		{Name: "Someone Else", Year: 2024},
	})
	// 2023 缺失：回溯到此为止，更早年份即使存在也不再读取
	writeYear(t, dir, 2022, []YearCamp{
		{Name: "Dust Bowl", Year: 2022, UID: "b0"},
	})

	hist, err := BuildHistory(dir, 2025)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("history has %d camps, want 2", len(hist))
	}
	eph := hist["Camp Ephemera"]
	if len(eph) != 2 || eph[0].Year != 2025 || eph[1].Year != 2024 {
		t.Errorf("Camp Ephemera history = %+v", eph)
	}
	// Dust Bowl 的 2022 记录被缺失的 2023 截断
	if db := hist["Dust Bowl"]; len(db) != 1 || db[0].Year != 2025 {
		t.Errorf("Dust Bowl history = %+v, want only 2025", db)
	}
	if _, ok := hist["Someone Else"]; ok {
		t.Error("camp absent from base year must not appear in history")
	}
}

func TestBuildHistorySkipsCovidYears(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2022, []YearCamp{{Name: "Camp Ephemera", Year: 2022}})
	// 2021/2020 停办年即使有残留文件也应跳过而非截断
	writeYear(t, dir, 2021, []YearCamp{{Name: "Camp Ephemera", Year: 2021}})
	writeYear(t, dir, 2019, []YearCamp{{Name: "Camp Ephemera", Year: 2019}})

	hist, err := BuildHistory(dir, 2022)
	if err != nil {
		t.Fatal(err)
	}
	eph := hist["Camp Ephemera"]
	if len(eph) != 2 || eph[1].Year != 2019 {
		t.Errorf("history = %+v, want 2022 then 2019", eph)
	}
}

func TestBuildHistoryMissingBaseYear(t *testing.T) {
	if _, err := BuildHistory(t.TempDir(), 2025); err == nil {
		t.Fatal("missing base year must be an error")
	}
}

func TestLoadYearFillsNothing(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2025, []YearCamp{{Name: "X"}})
	camps, err := LoadYear(dir, 2025)
	if err != nil || len(camps) != 1 {
		t.Fatalf("camps=%v err=%v", camps, err)
	}
	if _, err := LoadYear(dir, 1999); !os.IsNotExist(err) {
		t.Errorf("want not-exist error, got %v", err)
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	hist := History{
		"Camp Ephemera": {{Name: "Camp Ephemera", Year: 2025, UID: "a1"}},
	}
	path := filepath.Join(dir, "campHistory.json")
	if err := ExportJSON(path, hist); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]struct {
		Name    string     `json:"name"`
		History []YearCamp `json:"history"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	e := out["Camp Ephemera"]
	if e.Name != "Camp Ephemera" || len(e.History) != 1 || e.History[0].UID != "a1" {
		t.Errorf("export = %+v", out)
	}
}
