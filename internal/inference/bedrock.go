package inference

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// BedrockConfig holds the process-wide Bedrock settings. Credentials may be
// left empty to fall back to the default AWS credential chain.
type BedrockConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ModelID         string
}

// Bedrock implements the Invoker interface using the AWS Bedrock
// Converse API.
type Bedrock struct {
	client *bedrockruntime.Client
	model  string
}

var _ Invoker = (*Bedrock)(nil)

// NewBedrock creates a new Bedrock Invoker instance. It fails when no
// usable credentials can be resolved so that misconfiguration surfaces at
// startup instead of on the first request.
func NewBedrock(ctx context.Context, cfg BedrockConfig) (*Bedrock, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "amazon.nova-lite-v1:0"
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving aws credentials: %w", err)
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, fmt.Errorf("aws credentials are required")
	}

	return &Bedrock{
		client: bedrockruntime.NewFromConfig(awsCfg),
		model:  cfg.ModelID,
	}, nil
}

// Invoke sends a single-turn Converse request and returns the first text
// block of the assistant reply.
func (b *Bedrock) Invoke(ctx context.Context, req Request) (string, error) {
	content := []types.ContentBlock{
		&types.ContentBlockMemberText{Value: req.Prompt},
	}

	if req.Image != nil {
		content = append(content, &types.ContentBlockMemberImage{
			Value: types.ImageBlock{
				Format: types.ImageFormat(req.Image.Format),
				Source: &types.ImageSourceMemberBytes{Value: req.Image.Data},
			},
		})
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.model),
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: content,
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(req.MaxTokens),
			Temperature: aws.Float32(req.Temperature),
		},
	}

	resp, err := b.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("invoking bedrock model: %w", err)
	}

	message, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", ErrEmptyCompletion
	}

	for _, block := range message.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			return text.Value, nil
		}
	}

	return "", ErrEmptyCompletion
}

// Close closes the Bedrock invoker (no-op for the AWS client)
func (b *Bedrock) Close() error {
	return nil
}
