package domain

// MaterializedImages はポータブルな埋め込み表現（data: URL）に変換済みの
// 画像リソースの集合です。Overlays は要求リストとバンドルの両方に存在した
// オーバーレイだけを持ちます。
type MaterializedImages struct {
	BaseImage       string            `json:"base_image"`
	DisplacementMap string            `json:"displacement_map"`
	Overlays        map[string]string `json:"overlays"`
}

// OverlayCount は変換されたオーバーレイの数を返します。
func (m MaterializedImages) OverlayCount() int {
	return len(m.Overlays)
}
