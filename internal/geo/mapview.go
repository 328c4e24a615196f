package geo

// 文档注释：地图视图，把视口、快照与高亮状态收拢为单一属主
// 背景：变换与命中判定本身是纯函数；渲染与指针事件处理方需要一个持有可变视口
// 与"当前高亮边界"的对象。单线程事件回调内依次读写，无需加锁。
// 约束：同一时刻至多一个高亮边界；未命中或指针离开画布时清除。
type MapView struct {
	vp          *Viewport
	snap        *Snapshot
	highlighted *Feature
}

func NewMapView(vp *Viewport, snap *Snapshot) *MapView {
	return &MapView{vp: vp, snap: snap}
}

// Viewport：当前视口（可变引用，供平移/缩放处理方使用）
func (m *MapView) Viewport() *Viewport { return m.vp }

// Snapshot：当前边界快照
func (m *MapView) Snapshot() *Snapshot { return m.snap }

// HitTest：以画布坐标做命中判定并维护高亮状态
// 返回：命中的边界；未命中返回 nil 并清除高亮
func (m *MapView) HitTest(x, y float64) *Feature {
	lon, lat := m.vp.CanvasToGeo(x, y)
	var f *Feature
	if m.snap != nil {
		f = FindFeatureAt(lon, lat, m.snap.Features)
	}
	m.highlighted = f
	return f
}

// Highlighted：当前高亮边界，可能为 nil
func (m *MapView) Highlighted() *Feature { return m.highlighted }

// ClearHighlight：指针离开画布时由事件层调用
func (m *MapView) ClearHighlight() { m.highlighted = nil }

// Label：解析边界对应的营地名；快照缺失映射时返回空串
func (m *MapView) Label(f *Feature) string {
	if f == nil || m.snap == nil {
		return ""
	}
	return m.snap.Labels[f.FID]
}
