package geo

// 文档注释：轻量 geohash 编码（base32）
// 背景：用作定位查询的缓存键。黑石城范围仅数公里，8 字符约 19m 网格，
// 足以把同一边界内的悬停坐标折叠到少量键上。
// 约束：仅用于缓存键构造，不参与几何判定。
var ghBase32 = []rune("0123456789bcdefghjkmnpqrstuvwxyz")

func EncodeGeohash(lat, lon float64, precision int) string {
	latInt := []float64{-90, 90}
	lonInt := []float64{-180, 180}
	bits := []int{16, 8, 4, 2, 1}
	bit := 0
	ch := 0
	even := true
	out := make([]rune, 0, precision)
	for len(out) < precision {
		if even {
			mid := (lonInt[0] + lonInt[1]) / 2
			if lon >= mid {
				ch |= bits[bit]
				lonInt[0] = mid
			} else {
				lonInt[1] = mid
			}
		} else {
			mid := (latInt[0] + latInt[1]) / 2
			if lat >= mid {
				ch |= bits[bit]
				latInt[0] = mid
			} else {
				latInt[1] = mid
			}
		}
		even = !even
		if bit < 4 {
			bit++
		} else {
			out = append(out, ghBase32[ch])
			bit = 0
			ch = 0
		}
	}
	return string(out)
}
