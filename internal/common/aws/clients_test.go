package aws

import (
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailInput(t *testing.T) {
	in := EmailInput("noreply@careerai.example", "asha@example.com", "Assessment Complete!", "plain", "<p>html</p>")

	require.NotNil(t, in.Destination)
	assert.Equal(t, []string{"asha@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "noreply@careerai.example", awssdk.ToString(in.Source))
	assert.Equal(t, "Assessment Complete!", awssdk.ToString(in.Message.Subject.Data))
	assert.Equal(t, "plain", awssdk.ToString(in.Message.Body.Text.Data))
	assert.Equal(t, "<p>html</p>", awssdk.ToString(in.Message.Body.Html.Data))

	noHTML := EmailInput("a@b.c", "d@e.f", "s", "t", "")
	assert.Nil(t, noHTML.Message.Body.Html)
}

func TestSMSInput(t *testing.T) {
	in := SMSInput("+919800000000", "Your results are ready", "CAREERAI")

	assert.Equal(t, "+919800000000", awssdk.ToString(in.PhoneNumber))
	assert.Equal(t, "CAREERAI", awssdk.ToString(in.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
	assert.Equal(t, "Transactional", awssdk.ToString(in.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))

	noSender := SMSInput("+919800000000", "x", "")
	_, ok := noSender.MessageAttributes["AWS.SNS.SMS.SenderID"]
	assert.False(t, ok)
}
