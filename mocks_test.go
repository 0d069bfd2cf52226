package account_test

import (
	"context"

	account "github.com/goliatone/go-account"
	"github.com/stretchr/testify/mock"
)

// MockStorage implements account.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) FindOne(ctx context.Context, field string, value any, key string) account.Outcome {
	args := m.Called(ctx, field, value, key)
	return args.Get(0).(account.Outcome)
}

func (m *MockStorage) FindByID(ctx context.Context, id string, key string) account.Outcome {
	args := m.Called(ctx, id, key)
	return args.Get(0).(account.Outcome)
}

func (m *MockStorage) Save(ctx context.Context, record *account.Account, verb, key string) account.Outcome {
	args := m.Called(ctx, record, verb, key)
	return args.Get(0).(account.Outcome)
}

func (m *MockStorage) UpdateOne(ctx context.Context, field string, value any, set map[string]any, unset []string, key string) account.Outcome {
	args := m.Called(ctx, field, value, set, unset, key)
	return args.Get(0).(account.Outcome)
}

func (m *MockStorage) DeleteOne(ctx context.Context, field string, value any, key string) account.Outcome {
	args := m.Called(ctx, field, value, key)
	return args.Get(0).(account.Outcome)
}

// MockMailer implements account.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, kind account.MailKind, data account.Notification) account.Outcome {
	args := m.Called(ctx, kind, data)
	return args.Get(0).(account.Outcome)
}

// MockLogger implements account.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// testConfig implements account.Config
type testConfig struct {
	signingKey          string
	tokenExpiration     int
	emailChangeTokenTTL int
	authScheme          string
	contextKey          string
	siteURL             string
	hostname            string
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey:          "test-signing-key",
		tokenExpiration:     1,
		emailChangeTokenTTL: 1,
		authScheme:          "Bearer",
		contextKey:          "account",
		siteURL:             "https://site.example.com",
		hostname:            "https://api.example.com",
	}
}

func (c *testConfig) GetSigningKey() string       { return c.signingKey }
func (c *testConfig) GetTokenExpiration() int     { return c.tokenExpiration }
func (c *testConfig) GetEmailChangeTokenTTL() int { return c.emailChangeTokenTTL }
func (c *testConfig) GetAuthScheme() string       { return c.authScheme }
func (c *testConfig) GetContextKey() string       { return c.contextKey }
func (c *testConfig) GetSiteURL() string          { return c.siteURL }
func (c *testConfig) GetHostname() string         { return c.hostname }
