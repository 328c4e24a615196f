package geo

import "math"

// 文档注释：视口与画布坐标变换
// 背景：把经纬度映射到画布像素。营地环路的"12 点钟方向"要求朝上显示，因此所有转换
// 统一应用固定 -45°（顺时针）旋转；经度差按参考纬度的余弦压缩，构成局部切平面近似。
// 约束：该近似仅对数公里量级的范围成立，不是墨卡托或测地投影；压缩系数在构造时
// 以初始中心纬度锚定并保持不变，保证平移/缩放往返的严格可逆性。
const rotationRad = -45 * math.Pi / 180

var (
	rotCos = math.Cos(rotationRad)
	rotSin = math.Sin(rotationRad)
)

// Viewport：画布视口的可变状态
// CenterLon/CenterLat 为映射到画布中心的地理点；Scale 为每经度像素数（压缩前）
type Viewport struct {
	CenterLon float64
	CenterLat float64
	Scale     float64
	Width     float64
	Height    float64
	MinScale  float64
	MaxScale  float64

	latComp float64 // 纬度压缩系数，构造时锚定
}

// NewViewport：构造视口并锚定纬度压缩系数
// 约束：scale 立即按 [minScale, maxScale] 收敛；宽高为画布像素尺寸
func NewViewport(centerLon, centerLat, scale, width, height, minScale, maxScale float64) *Viewport {
	v := &Viewport{
		CenterLon: centerLon,
		CenterLat: centerLat,
		Scale:     scale,
		Width:     width,
		Height:    height,
		MinScale:  minScale,
		MaxScale:  maxScale,
		latComp:   math.Cos(centerLat * math.Pi / 180),
	}
	v.clampScale()
	return v
}

func (v *Viewport) clampScale() {
	if v.Scale < v.MinScale {
		v.Scale = v.MinScale
	}
	if v.Scale > v.MaxScale {
		v.Scale = v.MaxScale
	}
}

// LatCompression：当前纬度压缩系数（只读）
func (v *Viewport) LatCompression() float64 { return v.latComp }

// GeoToCanvas：正向变换，经纬度 → 画布像素
// 步骤：中心偏移（纬度轴取反，屏幕 y 向下）→ 固定旋转 → 平移到画布中心
func (v *Viewport) GeoToCanvas(lon, lat float64) (float64, float64) {
	dx := (lon - v.CenterLon) * v.Scale * v.latComp
	dy := -(lat - v.CenterLat) * v.Scale
	x := v.Width/2 + dx*rotCos - dy*rotSin
	y := v.Height/2 + dx*rotSin + dy*rotCos
	return x, y
}

// CanvasToGeo：逆向变换，画布像素 → 经纬度
// 旋转矩阵正交，逆即转置；随后撤销压缩、比例与中心偏移
func (v *Viewport) CanvasToGeo(x, y float64) (float64, float64) {
	rx := x - v.Width/2
	ry := y - v.Height/2
	dx := rx*rotCos + ry*rotSin
	dy := -rx*rotSin + ry*rotCos
	lon := v.CenterLon + dx/(v.Scale*v.latComp)
	lat := v.CenterLat - dy/v.Scale
	return lon, lat
}

// ZoomAtPoint：以画布点为锚进行缩放
// 背景：缩放前后光标下的地理点保持不动是该操作的可用性契约；
// 做法是记录缩放前后该画布点对应的地理坐标，差值回补到视口中心。
func (v *Viewport) ZoomAtPoint(x, y, factor float64) {
	lonBefore, latBefore := v.CanvasToGeo(x, y)
	v.Scale *= factor
	v.clampScale()
	lonAfter, latAfter := v.CanvasToGeo(x, y)
	v.CenterLon += lonBefore - lonAfter
	v.CenterLat += latBefore - latAfter
}

// PanBy：按画布像素增量平移视口
// 拖拽发生在屏幕空间，需先施加逆旋转回到未旋转的地理空间，再按比例换算
func (v *Viewport) PanBy(dx, dy float64) {
	gx := dx*rotCos + dy*rotSin
	gy := -dx*rotSin + dy*rotCos
	v.CenterLon -= gx / (v.Scale * v.latComp)
	v.CenterLat += gy / v.Scale
}
