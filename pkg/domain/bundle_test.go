package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestVisualizationBundle_JSON(t *testing.T) {
	t.Run("推論サービスのレスポンス形式をシミュレートするのだ", func(t *testing.T) {
		inputJSON := `{
			"keypoints": [[100.5, 200.25, -3.5], [110.0, 210.0, -4.0], [120.0, 205.0, -2.0]],
			"triangulation": [0, 1, 2],
			"outerRing": [0, 2],
			"overlays": {
				"combinedImage": "data:image/png;base64,AAAA",
				"keypointsImage": "data:image/png;base64,BBBB"
			}
		}`

		bundle, err := ParseVisualizationBundle([]byte(inputJSON))
		if err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}

		if len(bundle.Keypoints) != 3 {
			t.Fatalf("キーポイント数が違うのだ: %d", len(bundle.Keypoints))
		}
		want := Keypoint{X: 100.5, Y: 200.25, Z: -3.5}
		if bundle.Keypoints[0] != want {
			t.Errorf("キーポイントが正しくパースされていないのだ。期待: %+v, 実際: %+v", want, bundle.Keypoints[0])
		}
		if bundle.TriangleCount() != 1 {
			t.Errorf("三角形数が違うのだ: %d", bundle.TriangleCount())
		}
		if !bundle.HasOverlay(OverlayCombined) {
			t.Error("combinedImage が見つからないのだ")
		}
		if bundle.HasOverlay(OverlayOuterRing) {
			t.Error("存在しないオーバーレイが検出されてしまったのだ")
		}
	})

	t.Run("Keypointが配列形式で往復変換できるのだ", func(t *testing.T) {
		kp := Keypoint{X: 1.5, Y: -2.25, Z: 0.125}
		data, err := json.Marshal(kp)
		if err != nil {
			t.Fatalf("Marshal失敗なのだ: %v", err)
		}
		if string(data) != "[1.5,-2.25,0.125]" {
			t.Errorf("配列形式になっていないのだ: %s", data)
		}

		var decoded Keypoint
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal失敗なのだ: %v", err)
		}
		if !reflect.DeepEqual(kp, decoded) {
			t.Errorf("変換前後でデータが一致しないのだ。期待: %+v, 実際: %+v", kp, decoded)
		}
	})
}

func TestVisualizationBundle_PresentOverlays(t *testing.T) {
	bundle := &VisualizationBundle{
		Overlays: map[string]string{
			OverlayCombined:      "data:image/png;base64,AAAA",
			OverlayTriangulation: "data:image/png;base64,CCCC",
		},
	}

	t.Run("要求リストとバンドルの積集合だけが返るのだ", func(t *testing.T) {
		got := bundle.PresentOverlays(DefaultOverlayNames())
		want := []string{OverlayCombined, OverlayTriangulation}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("期待: %v, 実際: %v", want, got)
		}
	})

	t.Run("nilバンドルでも安全に空が返るのだ", func(t *testing.T) {
		var empty *VisualizationBundle
		if got := empty.PresentOverlays(DefaultOverlayNames()); len(got) != 0 {
			t.Errorf("空であるべきなのだ: %v", got)
		}
	})
}

func TestMeshConfig_WithScaleFromWidth(t *testing.T) {
	cfg := DefaultMeshConfig()

	derived := cfg.WithScaleFromWidth(512)
	if derived.ScaleFactor != cfg.BaseScale/512 {
		t.Errorf("ScaleFactorの導出が正しくないのだ: %v", derived.ScaleFactor)
	}
	if cfg.ScaleFactor != 0 {
		t.Error("元の設定が書き換わってしまったのだ")
	}

	if same := cfg.WithScaleFromWidth(0); same.ScaleFactor != 0 {
		t.Error("幅0のときはScaleFactorを導出しないのだ")
	}
}
