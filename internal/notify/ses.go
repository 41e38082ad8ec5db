package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the subset of the SES client the notifier uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESNotifier sends reset emails via Amazon SES
type SESNotifier struct {
	client   sesAPI
	from     string
	fromName string
	log      *slog.Logger
}

// NewSESNotifier loads AWS credentials from the default chain
func NewSESNotifier(ctx context.Context, region, from, fromName string, logger *slog.Logger) (*SESNotifier, error) {
	if from == "" {
		return nil, fmt.Errorf("SES from address is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email notifier enabled", "provider", "ses", "from", from, "region", region)
	return newSESNotifier(sesv2.NewFromConfig(cfg), from, fromName, logger), nil
}

func newSESNotifier(client sesAPI, from, fromName string, logger *slog.Logger) *SESNotifier {
	return &SESNotifier{client: client, from: from, fromName: fromName, log: logger}
}

func (s *SESNotifier) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	htmlBody, textBody := resetBodies(toName, resetLink)

	fromAddress := s.from
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.from)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(resetSubject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send reset email via SES: %w", err)
	}

	s.log.Info("password reset email sent", "provider", "ses", "message_id", aws.ToString(result.MessageId))
	return nil
}
