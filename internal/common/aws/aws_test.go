package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notification-relay/internal/common/providers"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

func TestSESClient_SendEmail(t *testing.T) {
	api := new(mockSES)
	api.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return awssdk.ToString(in.Source) == "Rentably <noreply@rentably.io>" &&
			len(in.Destination.ToAddresses) == 1 &&
			in.Destination.ToAddresses[0] == "ana@example.com" &&
			awssdk.ToString(in.Message.Subject.Data) == "Asunto" &&
			awssdk.ToString(in.Message.Body.Html.Data) == "<p>cuerpo</p>"
	})).Return(&ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil)

	c := NewSESClientWith(api)
	id, err := c.SendEmail(context.Background(), providers.EmailMessage{
		From:    "Rentably <noreply@rentably.io>",
		To:      "ana@example.com",
		Subject: "Asunto",
		HTML:    "<p>cuerpo</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, SESName, c.Name())
	api.AssertExpectations(t)
}

func TestSESClient_SendEmailError(t *testing.T) {
	api := new(mockSES)
	api.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("MessageRejected"))

	_, err := NewSESClientWith(api).SendEmail(context.Background(), providers.EmailMessage{To: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MessageRejected")
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		sender, ok := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return awssdk.ToString(in.PhoneNumber) == "+18095551234" &&
			awssdk.ToString(in.Message) == "hola" &&
			ok && awssdk.ToString(sender.StringValue) == "Rentably"
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("sns-1")}, nil)

	c := NewSNSClientWith(api, "Rentably")
	id, err := c.SendSMS(context.Background(), providers.SMSMessage{To: "+18095551234", Body: "hola"})

	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	api.AssertExpectations(t)
}

func TestSNSClient_NoSenderID(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		_, ok := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return !ok
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("sns-2")}, nil)

	_, err := NewSNSClientWith(api, "").SendSMS(context.Background(), providers.SMSMessage{To: "+1809", Body: "x"})
	require.NoError(t, err)
	api.AssertExpectations(t)
}
