package sendassessmentnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"career-workers/internal/common/logger"
	"career-workers/internal/repository"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         []*ses.SendEmailInput
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       []*sns.PublishInput
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	return m.PublishFunc(ctx, params, optFns...)
}

func sesOK() *MockSESService {
	return &MockSESService{SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
	}}
}

func sesFailing() *MockSESService {
	return &MockSESService{SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, errors.New("MessageRejected")
	}}
}

func snsOK() *MockSNSService {
	return &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
	}}
}

func snsFailing() *MockSNSService {
	return &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return nil, errors.New("throttled")
	}}
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@careerai.in",
		SMSSenderID:  "CAREERAI",
		Timeout:      30 * time.Second,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

var profileColumns = []string{"user_id", "full_name", "email", "city", "student_level"}

func expectProfile(mock sqlmock.Sqlmock, userID, name, email string) {
	mock.ExpectQuery("FROM profiles").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(userID, name, email, "Pune", "school_12"))
}

func newStore(t *testing.T) (*repository.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.New(db), mock
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Delivery(t *testing.T) {
	tests := []struct {
		name           string
		config         func(c *Config)
		ses            *MockSESService
		sns            *MockSNSService
		input          *Input
		validateOutput func(t *testing.T, output *Output, sesMock *MockSESService, snsMock *MockSNSService)
	}{
		{
			name:  "email and SMS sent",
			ses:   sesOK(),
			sns:   snsOK(),
			input: &Input{UserID: "user-1", Phone: "+919800000000", TopCareers: []string{"Data Scientist", "Software Engineer"}},
			validateOutput: func(t *testing.T, output *Output, sesMock *MockSESService, snsMock *MockSNSService) {
				assert.Equal(t, StatusSent, output.Status)
				assert.Equal(t, map[string]string{ChannelEmail: StatusSent, ChannelSMS: StatusSent}, output.Channels)
				assert.NotEmpty(t, output.NotificationID)
				_, err := time.Parse(time.RFC3339, output.SentAt)
				assert.NoError(t, err)

				require.Len(t, sesMock.calls, 1)
				email := sesMock.calls[0]
				assert.Equal(t, "noreply@careerai.in", *email.Source)
				assert.Equal(t, []string{"priya@example.com"}, email.Destination.ToAddresses)
				assert.Equal(t, "Assessment Complete!", *email.Message.Subject.Data)
				assert.Contains(t, *email.Message.Body.Text.Data, "Hi Priya,")
				assert.Contains(t, *email.Message.Body.Text.Data, "Your personalized career recommendations are ready.")
				assert.Contains(t, *email.Message.Body.Html.Data, "<li>Data Scientist</li>")

				require.Len(t, snsMock.calls, 1)
				assert.Equal(t, "+919800000000", *snsMock.calls[0].PhoneNumber)
				assert.Equal(t, "CAREERAI", *snsMock.calls[0].MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
			},
		},
		{
			name:  "no phone sends email only",
			ses:   sesOK(),
			sns:   snsOK(),
			input: &Input{UserID: "user-1"},
			validateOutput: func(t *testing.T, output *Output, sesMock *MockSESService, snsMock *MockSNSService) {
				assert.Equal(t, StatusSent, output.Status)
				assert.Equal(t, map[string]string{ChannelEmail: StatusSent}, output.Channels)
				assert.Empty(t, snsMock.calls)
			},
		},
		{
			name:   "channels disabled",
			config: func(c *Config) {
				c.EmailEnabled = false
				c.SMSEnabled = false
			},
			ses:   sesOK(),
			sns:   snsOK(),
			input: &Input{UserID: "user-1", Phone: "+919800000000"},
			validateOutput: func(t *testing.T, output *Output, sesMock *MockSESService, snsMock *MockSNSService) {
				assert.Equal(t, StatusDisabled, output.Status)
				assert.Empty(t, output.Channels)
				assert.Empty(t, sesMock.calls)
				assert.Empty(t, snsMock.calls)
			},
		},
		{
			name:  "email fails but SMS delivers",
			ses:   sesFailing(),
			sns:   snsOK(),
			input: &Input{UserID: "user-1", Phone: "+919800000000"},
			validateOutput: func(t *testing.T, output *Output, sesMock *MockSESService, snsMock *MockSNSService) {
				assert.Equal(t, StatusSent, output.Status)
				assert.Equal(t, StatusFailed, output.Channels[ChannelEmail])
				assert.Equal(t, StatusSent, output.Channels[ChannelSMS])
			},
		},
		{
			name:  "every channel fails",
			ses:   sesFailing(),
			sns:   snsFailing(),
			input: &Input{UserID: "user-1", Phone: "+919800000000"},
			validateOutput: func(t *testing.T, output *Output, sesMock *MockSESService, snsMock *MockSNSService) {
				assert.Equal(t, StatusFailed, output.Status)
			},
		},
		{
			name:  "top careers capped at three",
			ses:   sesOK(),
			sns:   snsOK(),
			input: &Input{UserID: "user-1", TopCareers: []string{"A", "B", "C", "D"}},
			validateOutput: func(t *testing.T, output *Output, sesMock *MockSESService, snsMock *MockSNSService) {
				require.Len(t, sesMock.calls, 1)
				text := *sesMock.calls[0].Message.Body.Text.Data
				assert.Contains(t, text, "- C\n")
				assert.NotContains(t, text, "- D\n")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newStore(t)
			expectProfile(mock, "user-1", "Priya Sharma", "priya@example.com")

			cfg := createTestConfig()
			if tt.config != nil {
				tt.config(cfg)
			}
			handler := NewHandler(cfg, store, tt.ses, tt.sns, createTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			require.NotNil(t, output)
			tt.validateOutput(t, output, tt.ses, tt.sns)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_RecipientNotFound(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery("FROM profiles").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(profileColumns))

	sesMock := sesOK()
	handler := NewHandler(createTestConfig(), store, sesMock, snsOK(), createTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: "ghost"})

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, sesMock.calls)
}

func TestHandler_Execute_EmptyNameGreeting(t *testing.T) {
	store, mock := newStore(t)
	expectProfile(mock, "user-1", "", "anon@example.com")

	sesMock := sesOK()
	handler := NewHandler(createTestConfig(), store, sesMock, nil, createTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: "user-1", Phone: "+919800000000"})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.NotContains(t, output.Channels, ChannelSMS)
	assert.Contains(t, *sesMock.calls[0].Message.Body.Text.Data, "Hi there,")
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		mockQuery   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name:        "nil input",
			input:       nil,
			expectedErr: ErrInvalidInput,
		},
		{
			name:        "missing user",
			input:       &Input{UserID: "  "},
			expectedErr: ErrInvalidInput,
		},
		{
			name:  "profile lookup fails",
			input: &Input{UserID: "user-1"},
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM profiles").WillReturnError(errors.New("connection reset"))
			},
			expectedErr: ErrRecipientLookup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newStore(t)
			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}
			handler := NewHandler(createTestConfig(), store, sesOK(), snsOK(), createTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestMessage_HTMLEscapesCareers(t *testing.T) {
	html, err := newMessage("Ravi", []string{"R&D <Engineer>"}).html()
	require.NoError(t, err)
	assert.Contains(t, html, "R&amp;D &lt;Engineer&gt;")
	assert.NotContains(t, html, "<Engineer>")
}
