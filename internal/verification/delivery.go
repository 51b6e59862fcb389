package verification

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/pkg/config"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// TwilioSender delivers OTP codes over SMS via Twilio
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

var _ CodeSender = (*TwilioSender)(nil)

// NewTwilioSender creates a sender from configuration
func NewTwilioSender(cfg config.SecurityConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioSender{client: client, from: cfg.TwilioFromNumber}
}

// Send delivers the code as an SMS
func (s *TwilioSender) Send(ctx context.Context, phone, code string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf("Your SubhVivah verification code is %s. It expires in 10 minutes.", code))

	_, err := s.client.Api.CreateMessage(params)
	return err
}

// LogSender logs that a code was issued without delivering it. Used in
// development and when SMS is disabled.
type LogSender struct{}

var _ CodeSender = (*LogSender)(nil)

// Send logs the delivery, masking the code
func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	logger.WithContext(ctx).Info("otp issued",
		zap.String("phone", maskPhone(phone)),
		zap.Int("code_length", len(code)),
	)
	return nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}

// NewSender returns a Twilio sender when SMS is enabled, log-only otherwise
func NewSender(cfg config.SecurityConfig) CodeSender {
	if cfg.SMSEnabled && cfg.TwilioAccountSID != "" {
		return NewTwilioSender(cfg)
	}
	return &LogSender{}
}
