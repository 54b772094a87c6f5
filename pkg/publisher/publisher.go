// Package publisher は生成された成果物（メッシュ・深度マップ・オーバーレイ）を
// ダウンロード可能なバンドルに組み立て、永続化します。
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/pkg/asset"
	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// OutputWriter はデータを外部ストレージに保存するためのインターフェースです。
// go-remote-io の OutputWriter はこのインターフェースを満たします。
type OutputWriter interface {
	Write(ctx context.Context, path string, data io.Reader, contentType string) error
}

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir  string
	BundleName string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	BundlePath string   // 生成されたzipバンドルのパス
	Entries    []string // バンドルに含まれるエントリ名のリスト
}

// FacePublisher は成果物の選別・組み立てと永続化を担います。
type FacePublisher struct {
	writer OutputWriter
}

// NewFacePublisher は指定されたライターを使う FacePublisher を返します。
func NewFacePublisher(writer OutputWriter) *FacePublisher {
	return &FacePublisher{writer: writer}
}

// Publish はバンドルを組み立てて書き出し、生成されたファイル情報を返却するのだ！
func (p *FacePublisher) Publish(ctx context.Context, set *domain.MeshSet, images domain.MaterializedImages, preview image.Image, cfg domain.MeshConfig, opts Options) (PublishResult, error) {
	result := PublishResult{}

	name := opts.BundleName
	if name == "" {
		name = asset.DefaultBundleName
	}
	bundlePath, err := asset.ResolveOutputPath(opts.OutputDir, name)
	if err != nil {
		return result, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	data, entries, err := BuildBundle(set, images, preview, cfg)
	if err != nil {
		return result, err
	}

	if p.writer == nil {
		return result, fmt.Errorf("OutputWriter が未設定のため保存できません")
	}
	if err := p.writer.Write(ctx, bundlePath, bytes.NewReader(data), "application/zip"); err != nil {
		return result, fmt.Errorf("バンドルの書き込みに失敗しました: %w", err)
	}

	slog.Info("バンドルを書き出したのだ", "path", bundlePath, "entries", len(entries))
	result.BundlePath = bundlePath
	result.Entries = entries
	return result, nil
}
