package domain

import (
	"encoding/json"
	"fmt"
)

// 推論サービスが返すオーバーレイ画像のキー名です。
const (
	OverlayCombined      = "combinedImage"
	OverlayKeypoints     = "keypointsImage"
	OverlayTriangulation = "triangulationImage"
	OverlayOuterRing     = "outerRingImage"
)

// DefaultOverlayNames は標準で取得対象とするオーバーレイ名の一覧を返します。
func DefaultOverlayNames() []string {
	return []string{OverlayCombined, OverlayKeypoints, OverlayTriangulation, OverlayOuterRing}
}

// Keypoint はランドマーク1点の画像ピクセル座標（zは相対深度）です。
// サービスの応答では [x, y, z] の配列として表現されます。
type Keypoint struct {
	X float64
	Y float64
	Z float64
}

// UnmarshalJSON は [x, y, z] 形式の配列から Keypoint を復元します。
func (k *Keypoint) UnmarshalJSON(data []byte) error {
	var v [3]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("キーポイントの形式が不正です: %w", err)
	}
	k.X, k.Y, k.Z = v[0], v[1], v[2]
	return nil
}

// MarshalJSON は Keypoint を [x, y, z] 形式の配列に変換します。
func (k Keypoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{k.X, k.Y, k.Z})
}

// VisualizationBundle はランドマーク/可視化モデルから返される構造化データ全体です。
// パイプライン1回の実行につき、ちょうど1つだけ生成されます。
type VisualizationBundle struct {
	Keypoints     []Keypoint        `json:"keypoints"`
	Triangulation []int             `json:"triangulation"`
	OuterRing     []int             `json:"outerRing"`
	Overlays      map[string]string `json:"overlays"`
}

// ParseVisualizationBundle はサービス応答のJSONバイト列をドメインモデルに変換します。
func ParseVisualizationBundle(data []byte) (*VisualizationBundle, error) {
	var bundle VisualizationBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("可視化バンドルのデコードに失敗しました: %w", err)
	}
	return &bundle, nil
}
