package domain

import "testing"

func TestNewProgress_Percent(t *testing.T) {
	t.Run("2フェーズ計算式を正確に再現するのだ", func(t *testing.T) {
		cases := []struct {
			stage    int
			complete bool
			done     bool
			want     int
		}{
			{StageSetup, false, false, 0},
			{StageSetup, true, false, 8},
			{StageUpload, false, false, 17},
			{StagePrediction, true, false, 58},
			{StageDepthEstimation, false, false, 83},
			{StageDepthEstimation, true, false, 92},
			{StageReview, false, false, 99}, // キャップされるのだ
			{StageReview, true, true, 100},
		}

		for _, c := range cases {
			got := NewProgress(c.stage, StageMessage(c.stage), c.complete, c.done)
			if got.Percent != c.want {
				t.Errorf("stage=%d complete=%v done=%v: 期待 %d%%, 実際 %d%%",
					c.stage, c.complete, c.done, c.want, got.Percent)
			}
		}
	})

	t.Run("Doneが立つまでは100%に到達しないのだ", func(t *testing.T) {
		for stage := StageSetup; stage <= StageReview; stage++ {
			for _, complete := range []bool{false, true} {
				p := NewProgress(stage, StageMessage(stage), complete, false)
				if p.Percent > 99 {
					t.Errorf("stage=%d complete=%v で %d%% が出てしまったのだ", stage, complete, p.Percent)
				}
			}
		}
	})

	t.Run("総ステージ数にレビューは含まれないのだ", func(t *testing.T) {
		p := NewProgress(StageReview, StageMessage(StageReview), true, true)
		if p.TotalStages != TotalStages {
			t.Errorf("TotalStagesが違うのだ: %d", p.TotalStages)
		}
		if p.Percent != 100 {
			t.Errorf("最終レポートは100%%であるべきなのだ: %d", p.Percent)
		}
	})
}
