// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"notification-relay/internal/common/providers"
)

const SESName = "ses"

// SESAPI is the subset of *ses.Client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESClient is an email driver backed by Amazon SES.
type SESClient struct {
	client SESAPI
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

func NewSESClientWith(api SESAPI) *SESClient {
	return &SESClient{client: api}
}

func (s *SESClient) Name() string { return SESName }

func (s *SESClient) SendEmail(ctx context.Context, msg providers.EmailMessage) (string, error) {
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(msg.Subject), Charset: awssdk.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: awssdk.String(msg.HTML), Charset: awssdk.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
