// 包 curator：候选图片的人工策展状态机
// 背景：抓取器把各营地的候选图片与 metadata.json 落在 candidates 目录下，
// 策展端点据此给出"下一个待策展营地"，并把保留/剔除结论写回元数据与抓取状态。
// 约束：状态以文件为准（与抓取器共享），每次操作读写整个文件；访问量为个位数/天，
// 不需要更细的并发控制，进程内以互斥锁串行化即可。
package curator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"camp-map/internal/logger"
)

// CampState：抓取器对单个营地的处理进度
type CampState struct {
	ImagesDownloaded int    `json:"images_downloaded"`
	LastProcessed    string `json:"last_processed,omitempty"`
	LastCurated      string `json:"last_curated,omitempty"`
}

// ScrapeState：抓取状态文件的顶层结构（与抓取器共享同一文件）
type ScrapeState struct {
	Camps       map[string]*CampState `json:"camps"`
	LastUpdated string                `json:"last_updated,omitempty"`
}

// LoadScrapeState：读取抓取状态；文件不存在时返回空状态
func LoadScrapeState(path string) (*ScrapeState, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ScrapeState{Camps: map[string]*CampState{}}, nil
		}
		return nil, err
	}
	var st ScrapeState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if st.Camps == nil {
		st.Camps = map[string]*CampState{}
	}
	return &st, nil
}

// SaveScrapeState：落盘抓取状态并刷新时间戳
func SaveScrapeState(path string, st *ScrapeState) error {
	st.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ImageMeta：单张候选图片；CurationResult 为空表示尚未策展
type ImageMeta struct {
	Filename       string `json:"filename"`
	SourceURL      string `json:"source_url"`
	CurationResult string `json:"curation_result,omitempty"`
}

// Metadata：营地目录下 metadata.json 的结构
type Metadata struct {
	Images []ImageMeta `json:"images"`
}

type Curator struct {
	mu            sync.Mutex
	candidatesDir string
	statePath     string
}

func New(candidatesDir, statePath string) *Curator {
	return &Curator{candidatesDir: candidatesDir, statePath: statePath}
}

func (c *Curator) loadState() (*ScrapeState, error) {
	b, err := os.ReadFile(c.statePath)
	if err != nil {
		return nil, err
	}
	var st ScrapeState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.statePath, err)
	}
	if st.Camps == nil {
		st.Camps = map[string]*CampState{}
	}
	return &st, nil
}

func (c *Curator) saveState(st *ScrapeState) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.statePath, b, 0o644)
}

func (c *Curator) metadataPath(camp string) string {
	return filepath.Join(c.candidatesDir, camp, "metadata.json")
}

func (c *Curator) loadMetadata(camp string) (*Metadata, error) {
	b, err := os.ReadFile(c.metadataPath(camp))
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", camp, err)
	}
	return &m, nil
}

// needsCuration：从未策展，或上次抓取晚于上次策展
// 约束：时间戳为 RFC3339 文本，字典序比较即时间序
func needsCuration(cs *CampState) bool {
	if cs.LastCurated == "" {
		return true
	}
	return cs.LastProcessed > cs.LastCurated
}

// NextCamp：返回下一个待策展的营地及其未策展图片
// 返回：无待策展营地时返回 ("", nil, nil)，调用方据此回复"全部完成"
func (c *Curator) NextCamp() (string, []ImageMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.loadState()
	if err != nil {
		return "", nil, err
	}
	names := make([]string, 0, len(st.Camps))
	for name := range st.Camps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := st.Camps[name]
		// 单张图大概率是站点 logo，不值得人工过一遍
		if cs.ImagesDownloaded <= 1 {
			continue
		}
		if !needsCuration(cs) {
			continue
		}
		meta, err := c.loadMetadata(name)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", nil, err
		}
		var pending []ImageMeta
		for _, img := range meta.Images {
			if img.CurationResult == "" {
				pending = append(pending, img)
			}
		}
		if len(pending) > 0 {
			return name, pending, nil
		}
	}
	return "", nil, nil
}

// Curate：记录一批图片的策展结论并推进状态
// verdicts：文件名 → 结论（keep/reject）；未在元数据中的文件名忽略
func (c *Curator) Curate(camp string, verdicts map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, err := c.loadMetadata(camp)
	if err != nil {
		return err
	}
	applied := 0
	for i := range meta.Images {
		if v, ok := verdicts[meta.Images[i].Filename]; ok && v != "" {
			meta.Images[i].CurationResult = v
			applied++
		}
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.metadataPath(camp), b, 0o644); err != nil {
		return err
	}
	st, err := c.loadState()
	if err != nil {
		return err
	}
	cs, ok := st.Camps[camp]
	if !ok {
		cs = &CampState{}
		st.Camps[camp] = cs
	}
	cs.LastCurated = time.Now().UTC().Format(time.RFC3339)
	if err := c.saveState(st); err != nil {
		return err
	}
	logger.L().Info("curate_done", "camp", camp, "applied", applied)
	return nil
}
