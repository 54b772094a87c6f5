package domain

// HasOverlay は指定した名前のオーバーレイがバンドルに含まれるかを返します。
func (b *VisualizationBundle) HasOverlay(name string) bool {
	if b == nil || b.Overlays == nil {
		return false
	}
	v, ok := b.Overlays[name]
	return ok && v != ""
}

// PresentOverlays は要求された名前のうち、バンドルに実在するものだけを
// 要求順のまま抽出します。存在しない名前は黙って読み飛ばします。
func (b *VisualizationBundle) PresentOverlays(requested []string) []string {
	present := make([]string, 0, len(requested))
	for _, name := range requested {
		if b.HasOverlay(name) {
			present = append(present, name)
		}
	}
	return present
}

// TriangleCount は三角形分割のインデックス列が表す三角形の枚数です。
func (b *VisualizationBundle) TriangleCount() int {
	return len(b.Triangulation) / 3
}
