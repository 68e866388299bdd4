package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

// SESSender sends templated emails via AWS SES.
type SESSender struct {
	client *sesv2.Client
	from   Address
	logger *logging.Logger
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	FromEmail string
	FromName  string
}

// NewSESSender creates an AWS SES template sender, or nil without a client.
func NewSESSender(client *sesv2.Client, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Margarita's Tailoring"
	}
	return &SESSender{
		client: client,
		from:   Address{Email: cfg.FromEmail, Name: cfg.FromName},
		logger: logger,
	}
}

// SendTemplate sends one templated email. The flat parameter map becomes the
// SES template data document.
func (s *SESSender) SendTemplate(ctx context.Context, templateID string, to Address, params map[string]string) error {
	if s == nil || s.client == nil {
		return ErrServiceUnavailable
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("notify: marshal template data: %w", err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.from.Name, s.from.Email)),
		Destination: &types.Destination{
			ToAddresses: []string{to.Email},
		},
		Content: &types.EmailContent{
			Template: &types.Template{
				TemplateName: aws.String(templateID),
				TemplateData: aws.String(string(data)),
			},
		},
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("SES send failed", "error", err, "to", to.Email, "template", templateID)
		var respErr *smithyhttp.ResponseError
		if errors.As(err, &respErr) {
			return &ProviderError{StatusCode: respErr.HTTPStatusCode()}
		}
		return fmt.Errorf("notify: SES send failed: %w", err)
	}

	s.logger.Info("email sent via SES", "to", to.Email, "template", templateID, "message_id", aws.ToString(output.MessageId))
	return nil
}

var _ TemplateSender = (*SESSender)(nil)
