package runner

import (
	"context"
	"image"

	"github.com/shouni/go-facemesh-kit/internal/config"
	facepipe "github.com/shouni/go-facemesh-kit/pkg/pipeline"
	"github.com/shouni/go-facemesh-kit/pkg/publisher"
)

// PublisherRunner はパブリッシュ処理のインターフェースです。
type PublisherRunner interface {
	Run(ctx context.Context, result *facepipe.Result, preview image.Image) (publisher.PublishResult, error)
}

// DefaultPublisherRunner は pkg/publisher を利用した標準実装です。
type DefaultPublisherRunner struct {
	options   config.GenerateOptions
	publisher *publisher.FacePublisher
}

func NewDefaultPublisherRunner(options config.GenerateOptions, pub *publisher.FacePublisher) *DefaultPublisherRunner {
	return &DefaultPublisherRunner{
		options:   options,
		publisher: pub,
	}
}

func (pr *DefaultPublisherRunner) Run(ctx context.Context, result *facepipe.Result, preview image.Image) (publisher.PublishResult, error) {
	// internal/config の値を pkg/publisher 用の構造体に詰め替えます。
	opts := publisher.Options{
		OutputDir:  pr.options.OutputDir,
		BundleName: pr.options.BundleName,
	}

	return pr.publisher.Publish(ctx, result.Meshes, result.Images, preview, result.Config, opts)
}
