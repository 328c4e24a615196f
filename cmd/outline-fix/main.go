// 轮廓修复工具：报告未闭合的营地边界，-write 模式原地补点闭合
// 背景：年度轮廓数据集偶有首尾顶点不重合的折线，命中判定会排除它们；
// 修复直接改写源文件，properties 中的未知字段原样保留。
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"camp-map/internal/geo"
)

// rawFeature 用 RawMessage 保留 properties 的全部字段，仅解码坐标做判定
type rawFeature struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`
	Geometry   struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

func fidOf(props json.RawMessage) int {
	var p struct {
		FID int `json:"fid"`
	}
	_ = json.Unmarshal(props, &p)
	return p.FID
}

func main() {
	write := flag.Bool("write", false, "补点闭合并回写源文件")
	flag.Parse()
	path := flag.Arg(0)
	if path == "" {
		path = os.Getenv("CAMP_OUTLINES")
	}
	if path == "" {
		log.Fatal("usage: outline-fix [-write] <outlines.json>")
	}

	if !*write {
		snap, err := geo.LoadSnapshot(path, "")
		if err != nil {
			log.Fatal(err)
		}
		bad := geo.FindUnclosed(snap.Features)
		if len(bad) == 0 {
			fmt.Println("all outlines closed")
			return
		}
		for _, u := range bad {
			fmt.Printf("fid=%d coords=%d first=(%.6f,%.6f) last=(%.6f,%.6f)\n",
				u.FID, u.Coords, u.First.Lon, u.First.Lat, u.Last.Lon, u.Last.Lat)
		}
		fmt.Println(len(bad), "unclosed outlines; rerun with -write to repair")
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var col rawCollection
	if err := json.Unmarshal(b, &col); err != nil {
		log.Fatal(err)
	}
	fixed := 0
	for i := range col.Features {
		rf := &col.Features[i]
		if rf.Geometry.Type != "LineString" {
			continue
		}
		f := geo.Feature{FID: fidOf(rf.Properties)}
		for _, c := range rf.Geometry.Coordinates {
			if len(c) >= 2 {
				f.Vertices = append(f.Vertices, geo.Point{Lon: c[0], Lat: c[1]})
			}
		}
		if geo.CloseFeature(&f) {
			rf.Geometry.Coordinates = append(rf.Geometry.Coordinates, rf.Geometry.Coordinates[0])
			fixed++
			log.Println("closed fid", f.FID)
		}
	}
	if fixed == 0 {
		fmt.Println("nothing to repair")
		return
	}
	out, err := json.Marshal(col)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Println("repaired", fixed, "outlines in", path)
}
