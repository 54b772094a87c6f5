package domain

import "math"

// TotalStages はパイプラインが列挙する正規ステージ数です。
// 末尾のレビュー報告はこの数に含まれません。
const TotalStages = 6

// パイプラインのステージ番号です。
const (
	StageSetup = iota
	StageUpload
	StagePreview
	StagePrediction
	StageObjectGeneration
	StageDepthEstimation
	StageReview // 非公式の仕上げステージ。TotalStages には数えません。
)

// StageMessage はステージ番号に対応する表示用メッセージを返します。
func StageMessage(stage int) string {
	switch stage {
	case StageSetup:
		return "セットアップ中"
	case StageUpload:
		return "画像を読み込み中"
	case StagePreview:
		return "プレビューを準備中"
	case StagePrediction:
		return "ランドマークを推論中"
	case StageObjectGeneration:
		return "3Dオブジェクトを生成中"
	case StageDepthEstimation:
		return "深度を推定中"
	default:
		return "仕上げを確認中"
	}
}

// Progress はステージ遷移の瞬間を表す不変の通知レコードです。
// 受け取り側はこれを通知として扱い、命令として扱ってはいけません。
type Progress struct {
	Stage       int    `json:"stage"`
	TotalStages int    `json:"total_stages"`
	Message     string `json:"message"`
	Percent     int    `json:"percent"`
	Complete    bool   `json:"complete"`
	Done        bool   `json:"done"`
}

// ProgressFunc はステージ遷移ごとに同期的に呼び出されるコールバックです。
// nil を渡した場合、通知は行われません。
type ProgressFunc func(Progress)

// NewProgress は進捗レコードを生成します。パーセントは
// round((stage*2 + complete) / (TotalStages*2) * 100) で計算され、
// Done が立つまでは 99% を上限とします。Done が立った時点で 100% になります。
func NewProgress(stage int, message string, complete, done bool) Progress {
	c := 0
	if complete {
		c = 1
	}
	percent := int(math.Round(float64(stage*2+c) / float64(TotalStages*2) * 100))
	if done {
		percent = 100
	} else if percent > 99 {
		percent = 99
	}
	return Progress{
		Stage:       stage,
		TotalStages: TotalStages,
		Message:     message,
		Percent:     percent,
		Complete:    complete,
		Done:        done,
	}
}
